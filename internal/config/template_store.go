package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/wcatz/widget-layout/internal/layout"
)

// TemplateStore persists a layout template as YAML, one key per
// breakpoint from widest to narrowest. It remembers the template last
// read or written so Reload can tell its own writes from outside edits.
type TemplateStore struct {
	path string

	mu   sync.Mutex
	last layout.Template
}

// NewTemplateStore creates a store for the given file path.
func NewTemplateStore(path string) *TemplateStore {
	return &TemplateStore{path: path}
}

// Path returns the file backing the store.
func (s *TemplateStore) Path() string {
	return s.path
}

// Load reads the template. A missing file yields an empty template.
func (s *TemplateStore) Load() (layout.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.read()
	if err != nil {
		return nil, err
	}
	s.last = t.Clone()
	return t, nil
}

// Reload reads the template and reports whether it differs from the one
// last loaded or saved through s. A file holding the store's own latest
// write is reported unchanged.
func (s *TemplateStore) Reload() (layout.Template, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.read()
	if err != nil {
		return nil, false, err
	}
	if s.last != nil && t.Equal(s.last) {
		return t, false, nil
	}
	s.last = t.Clone()
	return t, true, nil
}

func (s *TemplateStore) read() (layout.Template, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return layout.NewTemplate(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading template: %w", err)
	}
	return ParseTemplate(data)
}

// ParseTemplate decodes a YAML or JSON template document. Widget types are
// recomputed from the item ids. Items with out-of-range geometry are
// rejected with layout.ErrInvalidGeometry.
func ParseTemplate(data []byte) (layout.Template, error) {
	var raw map[string][]layout.Item
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	t := make(map[layout.Breakpoint][]layout.Item, len(raw))
	for key, items := range raw {
		bp, err := layout.ParseBreakpoint(key)
		if err != nil {
			return nil, fmt.Errorf("parsing template: %w", err)
		}
		t[bp] = items
	}
	tpl := layout.FromRaw(t)
	if err := tpl.Validate(); err != nil {
		return nil, fmt.Errorf("parsing template: %w", err)
	}
	return tpl, nil
}

// Save writes t atomically through a temp file in the same directory.
func (s *TemplateStore) Save(t layout.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := templateNode(t)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".template-*.yaml")
	if err != nil {
		return fmt.Errorf("opening template for write: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := yaml.NewEncoder(tmp)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding template: %w", err)
	}
	if err := enc.Close(); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding template: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing template: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing template: %w", err)
	}
	s.last = t.Clone()
	return nil
}

// templateNode builds the document by hand so breakpoint keys keep their
// width order instead of the encoder's sorted map order.
func templateNode(t layout.Template) (*yaml.Node, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, bp := range layout.Breakpoints {
		items := t.Layout(bp)
		if items == nil {
			items = []layout.Item{}
		}
		var value yaml.Node
		if err := value.Encode(items); err != nil {
			return nil, fmt.Errorf("encoding %s layout: %w", bp, err)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: string(bp)},
			&value,
		)
	}
	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}, nil
}

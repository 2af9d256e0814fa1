package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wcatz/widget-layout/internal/layout"
)

// ErrNoWidgets is returned by Validate when the widgets section is empty.
var ErrNoWidgets = errors.New("no widgets defined in config")

var bracedRefRe = regexp.MustCompile(`\$\{(\w+)\}`)

// LayoutSettings holds the layout options passed to each session.
type LayoutSettings struct {
	Locked                bool   `yaml:"locked"`
	ShowDrawer            *bool  `yaml:"show_drawer"`
	ShowEmptyState        *bool  `yaml:"show_empty_state"`
	InitialDrawerOpen     bool   `yaml:"initial_drawer_open"`
	DocumentationLink     string `yaml:"documentation_link"`
	DrawerInstructionText string `yaml:"drawer_instruction_text"`
	TemplateFile          string `yaml:"template_file"`
}

// DrawerEnabled reports whether the add-widget drawer is shown. Defaults to true.
func (l LayoutSettings) DrawerEnabled() bool {
	return l.ShowDrawer == nil || *l.ShowDrawer
}

// EmptyStateEnabled reports whether the empty state is shown. Defaults to true.
func (l LayoutSettings) EmptyStateEnabled() bool {
	return l.ShowEmptyState == nil || *l.ShowEmptyState
}

// WidgetDef is a widget type definition from config YAML. Content may
// reference ${id}, ${type} and ${title}.
type WidgetDef struct {
	Defaults layout.Defaults      `yaml:"defaults"`
	Config   *layout.WidgetConfig `yaml:"config"`
	Content  string               `yaml:"content"`
}

// ServerSettings holds the HTTP server options.
type ServerSettings struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	Watch          bool     `yaml:"watch"`
}

// Config holds the entire YAML configuration.
type Config struct {
	Layout  LayoutSettings       `yaml:"layout"`
	Widgets map[string]WidgetDef `yaml:"widgets"`
	Server  ServerSettings       `yaml:"server"`

	path        string
	widgetOrder []string
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	c, err := loadFromData(data)
	if err != nil {
		return nil, err
	}
	c.path = path
	return c, nil
}

// LoadFromBytes parses a YAML config from raw bytes (for validation).
func LoadFromBytes(data []byte) (*Config, error) {
	return loadFromData(data)
}

func loadFromData(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	c.widgetOrder = parseWidgetKeyOrder(data)
	return &c, nil
}

// TemplatePath returns the template file path. A relative path is
// resolved against the directory of the config file.
func (c *Config) TemplatePath() string {
	p := c.Layout.TemplateFile
	if p == "" || c.path == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(c.path), p)
}

// WidgetOrder returns widget types in the order they appear in the file.
func (c *Config) WidgetOrder() []string {
	if len(c.widgetOrder) == len(c.Widgets) {
		return c.widgetOrder
	}
	// Widgets set in code; fall back to sorted keys.
	keys := make([]string, 0, len(c.Widgets))
	for k := range c.Widgets {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Validate checks every widget definition and returns all problems found.
func (c *Config) Validate() error {
	if len(c.Widgets) == 0 {
		return ErrNoWidgets
	}
	var errs []error
	for _, name := range c.WidgetOrder() {
		w := c.Widgets[name]
		d := w.Defaults
		switch {
		case strings.Contains(name, layout.Separator):
			errs = append(errs, fmt.Errorf("widget '%s': type must not contain %q", name, layout.Separator))
		case name == "":
			errs = append(errs, fmt.Errorf("widget with empty type"))
		}
		if d.W <= 0 || d.H <= 0 {
			errs = append(errs, fmt.Errorf("widget '%s': defaults w and h must be positive", name))
		}
		if d.MaxH > 0 && d.H > d.MaxH {
			errs = append(errs, fmt.Errorf("widget '%s': h %d exceeds maxH %d", name, d.H, d.MaxH))
		}
		if d.MinH > 0 && d.H < d.MinH {
			errs = append(errs, fmt.Errorf("widget '%s': h %d is below minH %d", name, d.H, d.MinH))
		}
	}
	return errors.Join(errs...)
}

// Catalog builds the widget catalog in file order.
func (c *Config) Catalog() *layout.Catalog {
	entries := make([]layout.Entry, 0, len(c.Widgets))
	for _, name := range c.WidgetOrder() {
		w := c.Widgets[name]
		e := layout.Entry{
			Type:     name,
			Defaults: w.Defaults,
			Config:   w.Config.Clone(),
		}
		e.Render = contentRenderer(e, w.Content)
		entries = append(entries, e)
	}
	return layout.NewCatalog(entries...)
}

func contentRenderer(e layout.Entry, content string) layout.RenderFunc {
	if content == "" {
		content = "${title}"
	}
	title := e.DisplayTitle()
	return func(id string) string {
		return ResolveRef(content, map[string]string{
			"id":    id,
			"type":  e.Type,
			"title": title,
		})
	}
}

// ResolveRef resolves ${name} references in a string. Unknown names are
// left as is.
func ResolveRef(value string, refs map[string]string) string {
	return bracedRefRe.ReplaceAllStringFunc(value, func(match string) string {
		refName := bracedRefRe.FindStringSubmatch(match)[1]
		if v, ok := refs[refName]; ok {
			return v
		}
		return match
	})
}

// parseWidgetKeyOrder extracts widget key ordering from raw YAML.
func parseWidgetKeyOrder(data []byte) []string {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil
	}
	if node.Kind != yaml.DocumentNode || len(node.Content) == 0 {
		return nil
	}
	widgets := findMappingKey(node.Content[0], "widgets")
	if widgets == nil || widgets.Kind != yaml.MappingNode {
		return nil
	}
	var order []string
	for j := 0; j < len(widgets.Content)-1; j += 2 {
		order = append(order, widgets.Content[j].Value)
	}
	return order
}

// findMappingKey finds the value node for a key in a MappingNode.
func findMappingKey(mapping *yaml.Node, key string) *yaml.Node {
	if mapping.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i < len(mapping.Content)-1; i += 2 {
		if mapping.Content[i].Value == key {
			return mapping.Content[i+1]
		}
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcatz/widget-layout/internal/layout"
)

func TestTemplateStoreMissingFile(t *testing.T) {
	s := NewTemplateStore(filepath.Join(t.TempDir(), "template.yaml"))
	tpl, err := s.Load()
	require.NoError(t, err)
	assert.True(t, tpl.Equal(layout.NewTemplate()))
}

func TestTemplateStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.yaml")
	s := NewTemplateStore(path)

	tpl := layout.NewTemplate()
	tpl[layout.XL] = []layout.Item{
		{ID: "alerts#1", X: 0, Y: 0, W: 2, H: 3, MaxH: 6, MinH: 2, Static: true, Title: "Alerts",
			Config: &layout.WidgetConfig{Title: "Alerts", HeaderLink: &layout.HeaderLink{Href: "/alerts"}}},
	}
	tpl[layout.SM] = []layout.Item{{ID: "alerts#1", W: 1, H: 3, Title: "Alerts"}}
	tpl = layout.Normalize(tpl)

	require.NoError(t, s.Save(tpl))

	got, err := s.Load()
	require.NoError(t, err)
	assert.True(t, got.Equal(tpl))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is renamed into place")
}

func TestTemplateStoreKeyOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.yaml")
	require.NoError(t, NewTemplateStore(path).Save(layout.NewTemplate()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	xl := strings.Index(text, "xl:")
	lg := strings.Index(text, "lg:")
	md := strings.Index(text, "md:")
	sm := strings.Index(text, "sm:")
	assert.True(t, xl < lg && lg < md && md < sm, "keys out of order:\n%s", text)
}

func TestParseTemplate(t *testing.T) {
	tpl, err := ParseTemplate([]byte(`
lg:
  - { i: "alerts#1", x: 0, y: 0, w: 1, h: 4, title: Alerts }
  - { i: "__dropping-elem__", x: 1, y: 0, w: 1, h: 1, title: "" }
`))
	require.NoError(t, err)
	require.Len(t, tpl[layout.LG], 1)
	assert.Equal(t, "alerts", tpl[layout.LG][0].WidgetType)
	assert.NotNil(t, tpl[layout.XL])

	fromJSON, err := ParseTemplate([]byte(`{"sm":[{"i":"a#1","x":0,"y":0,"w":1,"h":1,"title":"A"}]}`))
	require.NoError(t, err)
	assert.Equal(t, "a", fromJSON[layout.SM][0].WidgetType)

	_, err = ParseTemplate([]byte("xxl: []\n"))
	assert.ErrorIs(t, err, layout.ErrUnknownBreakpoint)
}

func TestParseTemplateRejectsOutOfRangeGeometry(t *testing.T) {
	_, err := ParseTemplate([]byte(`{"lg":[{"i":"a#1","x":0,"y":500000000,"w":1,"h":1}]}`))
	assert.ErrorIs(t, err, layout.ErrInvalidGeometry)

	_, err = ParseTemplate([]byte("sm:\n  - { i: \"a#1\", x: -1, y: 0, w: 1, h: 1 }\n"))
	assert.ErrorIs(t, err, layout.ErrInvalidGeometry)
}

func TestTemplateStoreReloadSkipsOwnWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.yaml")
	s := NewTemplateStore(path)

	a := layout.NewTemplate()
	a[layout.LG] = []layout.Item{{ID: "alerts#1", W: 1, H: 2, Title: "Alerts"}}
	a = layout.Normalize(a)
	require.NoError(t, s.Save(a))

	_, changed, err := s.Reload()
	require.NoError(t, err)
	assert.False(t, changed, "own write is not a change")

	b := a.Clone()
	b[layout.LG][0].H = 4
	require.NoError(t, s.Save(b))
	_, changed, err = s.Reload()
	require.NoError(t, err)
	assert.False(t, changed, "latest own write is not a change")

	edited := []byte("lg:\n  - { i: \"alerts#1\", x: 1, y: 0, w: 1, h: 3, title: Alerts }\n")
	require.NoError(t, os.WriteFile(path, edited, 0o644))
	got, changed, err := s.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 3, got[layout.LG][0].H)

	_, changed, err = s.Reload()
	require.NoError(t, err)
	assert.False(t, changed, "outside edit is reported once")
}

func TestTemplateStoreLoadRemembersTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "template.yaml")
	require.NoError(t, os.WriteFile(path, []byte("md:\n  - { i: \"a#1\", x: 0, y: 0, w: 1, h: 1, title: A }\n"), 0o644))
	s := NewTemplateStore(path)

	_, err := s.Load()
	require.NoError(t, err)
	_, changed, err := s.Reload()
	require.NoError(t, err)
	assert.False(t, changed)
}

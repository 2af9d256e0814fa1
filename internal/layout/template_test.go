package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFiltersDropPlaceholder(t *testing.T) {
	in := Template{
		XL: {
			{ID: "widget-1#1", X: 0, Y: 0, W: 2, H: 3, WidgetType: "widget-1", Title: "Widget 1"},
			{ID: DropPlaceholderID, X: 2, Y: 0, W: 2, H: 3, WidgetType: "widget-2", Title: "Dropping"},
		},
		SM: {{ID: DropPlaceholderID}},
	}

	out := Normalize(in)
	require.Len(t, out[XL], 1)
	assert.Equal(t, "widget-1#1", out[XL][0].ID)
	assert.Empty(t, out[SM])
	for _, bp := range Breakpoints {
		assert.NotNil(t, out[bp], "breakpoint %s present", bp)
	}
}

func TestNormalizeRecomputesWidgetType(t *testing.T) {
	in := NewTemplate()
	in[XL] = []Item{
		{ID: "my-widget#123", W: 2, H: 3, WidgetType: ""},
		{ID: "renamed#9", W: 1, H: 1, WidgetType: "stale"},
		{ID: "bare", W: 1, H: 1, WidgetType: "other"},
	}

	out := Normalize(in)
	assert.Equal(t, []string{"my-widget", "renamed", "bare"}, out.WidgetTypes(XL))
	assert.Equal(t, "stale", in[XL][1].WidgetType, "input is not mutated")
}

func TestNormalizeIdempotent(t *testing.T) {
	in := Template{
		XL: {
			{ID: "a#1", X: 0, Y: 0, W: 2, H: 3, Config: &WidgetConfig{Title: "A", Props: map[string]string{"aria-label": "a"}}},
			{ID: DropPlaceholderID},
		},
		LG: {{ID: "b#2", WidgetType: "nope", Static: true}},
	}

	once := Normalize(in)
	twice := Normalize(once)
	assert.True(t, once.Equal(twice))
	for _, bp := range Breakpoints {
		for _, it := range twice[bp] {
			assert.NotEqual(t, DropPlaceholderID, it.ID)
		}
	}
}

func TestFromRaw(t *testing.T) {
	raw := map[Breakpoint][]Item{
		XL: {{ID: "widget-1#1", X: 0, Y: 0, W: 2, H: 3, Title: "Widget 1"}},
		LG: {},
	}

	out := FromRaw(raw)
	assert.Equal(t, "widget-1", out[XL][0].WidgetType)
	assert.Equal(t, "widget-1#1", out[XL][0].ID)
	assert.Len(t, out, 4)
}

func TestTemplateCloneIsDeep(t *testing.T) {
	in := NewTemplate()
	in[MD] = []Item{{ID: "a#1", Config: &WidgetConfig{Title: "A", HeaderLink: &HeaderLink{Href: "/x"}}}}

	cp := in.Clone()
	cp[MD][0].Config.Title = "changed"
	cp[MD][0].Config.HeaderLink.Href = "/y"
	cp[MD][0].X = 3

	assert.Equal(t, "A", in[MD][0].Config.Title)
	assert.Equal(t, "/x", in[MD][0].Config.HeaderLink.Href)
	assert.Equal(t, 0, in[MD][0].X)
}

func TestTemplateEqual(t *testing.T) {
	a := NewTemplate()
	b := Template{}
	assert.True(t, a.Equal(b), "missing breakpoint equals empty")

	a[XL] = []Item{{ID: "a#1", Config: &WidgetConfig{Title: "A"}}}
	b[XL] = []Item{{ID: "a#1", Config: &WidgetConfig{Title: "A"}}}
	assert.True(t, a.Equal(b))

	b[XL][0].Config.Title = "B"
	assert.False(t, a.Equal(b))

	b[XL][0].Config = nil
	assert.False(t, a.Equal(b))
}

func TestMapItemsAndRemoveItem(t *testing.T) {
	in := NewTemplate()
	for _, bp := range Breakpoints {
		in[bp] = []Item{
			{ID: "a#1", WidgetType: "a", H: 3},
			{ID: "b#1", WidgetType: "b", H: 4},
		}
	}

	locked := in.MapItems("a#1", func(it Item) Item {
		it.Static = true
		return it
	})
	for _, bp := range Breakpoints {
		assert.True(t, locked[bp][0].Static)
		assert.False(t, locked[bp][1].Static)
		assert.False(t, in[bp][0].Static)
	}

	removed := in.RemoveItem("b#1")
	for _, bp := range Breakpoints {
		require.Len(t, removed[bp], 1)
		assert.Equal(t, "a#1", removed[bp][0].ID)
	}
	assert.False(t, removed.Contains("b#1"))
	assert.True(t, in.Contains("b#1"))

	same := in.RemoveItem("missing#0")
	assert.True(t, same.Equal(in))
}

func TestTemplateEmpty(t *testing.T) {
	assert.True(t, NewTemplate().Empty())
	assert.True(t, Template(nil).Empty())

	tpl := NewTemplate()
	tpl[SM] = []Item{{ID: "a#1", W: 1, H: 1}}
	assert.False(t, tpl.Empty())
}

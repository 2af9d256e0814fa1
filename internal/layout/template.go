package layout

import "reflect"

// Item is one widget instance placed at one breakpoint.
type Item struct {
	ID         string        `yaml:"i" json:"i"`
	X          int           `yaml:"x" json:"x"`
	Y          int           `yaml:"y" json:"y"`
	W          int           `yaml:"w" json:"w"`
	H          int           `yaml:"h" json:"h"`
	MaxH       int           `yaml:"maxH,omitempty" json:"maxH,omitempty"`
	MinH       int           `yaml:"minH,omitempty" json:"minH,omitempty"`
	Static     bool          `yaml:"static,omitempty" json:"static,omitempty"`
	Title      string        `yaml:"title" json:"title"`
	WidgetType string        `yaml:"widgetType,omitempty" json:"widgetType"`
	Config     *WidgetConfig `yaml:"config,omitempty" json:"config,omitempty"`
}

// Right returns the column just past the item's right edge.
func (it Item) Right() int { return it.X + it.W }

// Bottom returns the row just below the item.
func (it Item) Bottom() int { return it.Y + it.H }

// clone copies the item and recomputes its widget type from the id.
func (it Item) clone() Item {
	it.Config = it.Config.Clone()
	it.WidgetType = WidgetTypeOf(it.ID)
	return it
}

func (it Item) equal(o Item) bool {
	a, b := it, o
	a.Config, b.Config = nil, nil
	if a != b {
		return false
	}
	if (it.Config == nil) != (o.Config == nil) {
		return false
	}
	return it.Config == nil || reflect.DeepEqual(*it.Config, *o.Config)
}

// Template maps every breakpoint to its ordered arrangement of items.
type Template map[Breakpoint][]Item

// NewTemplate returns a template with an empty arrangement per breakpoint.
func NewTemplate() Template {
	t := make(Template, len(Breakpoints))
	for _, bp := range Breakpoints {
		t[bp] = []Item{}
	}
	return t
}

// Layout returns the arrangement for bp.
func (t Template) Layout(bp Breakpoint) []Item {
	return t[bp]
}

// WidgetTypes returns the widget types placed at bp, in arrangement order.
func (t Template) WidgetTypes(bp Breakpoint) []string {
	items := t[bp]
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.WidgetType)
	}
	return out
}

// Clone returns a deep copy holding all four breakpoints.
func (t Template) Clone() Template {
	out := NewTemplate()
	for _, bp := range Breakpoints {
		items := t[bp]
		cp := make([]Item, len(items))
		for i, it := range items {
			cp[i] = it
			cp[i].Config = it.Config.Clone()
		}
		out[bp] = cp
	}
	return out
}

// Equal reports deep equality. A missing breakpoint equals an empty one.
func (t Template) Equal(o Template) bool {
	for _, bp := range Breakpoints {
		a, b := t[bp], o[bp]
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !a[i].equal(b[i]) {
				return false
			}
		}
	}
	return true
}

// Find returns the item with the given id at bp.
func (t Template) Find(bp Breakpoint, id string) (Item, bool) {
	for _, it := range t[bp] {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

// Normalize strips drop placeholders and recomputes every widget type from
// its identifier. The result always holds the four breakpoints.
func Normalize(t Template) Template {
	out := NewTemplate()
	for _, bp := range Breakpoints {
		items := make([]Item, 0, len(t[bp]))
		for _, it := range t[bp] {
			if it.ID == DropPlaceholderID {
				continue
			}
			items = append(items, it.clone())
		}
		out[bp] = items
	}
	return out
}

// FromRaw imports an arrangement that never carried widget types, such as
// a template file written by hand.
func FromRaw(raw map[Breakpoint][]Item) Template {
	return Normalize(Template(raw))
}

// MapItems returns a copy of t with fn applied to every item whose id
// matches, across all breakpoints.
func (t Template) MapItems(id string, fn func(Item) Item) Template {
	out := t.Clone()
	for _, bp := range Breakpoints {
		for i, it := range out[bp] {
			if it.ID == id {
				out[bp][i] = fn(it).clone()
			}
		}
	}
	return out
}

// RemoveItem returns a copy of t without the item id in any breakpoint.
func (t Template) RemoveItem(id string) Template {
	out := NewTemplate()
	for _, bp := range Breakpoints {
		items := make([]Item, 0, len(t[bp]))
		for _, it := range t[bp] {
			if it.ID != id {
				items = append(items, it.clone())
			}
		}
		out[bp] = items
	}
	return out
}

// Contains reports whether id is placed at any breakpoint.
func (t Template) Contains(id string) bool {
	for _, bp := range Breakpoints {
		if _, ok := t.Find(bp, id); ok {
			return true
		}
	}
	return false
}

// Empty reports whether no breakpoint has any item.
func (t Template) Empty() bool {
	for _, bp := range Breakpoints {
		if len(t[bp]) > 0 {
			return false
		}
	}
	return true
}

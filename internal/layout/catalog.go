package layout

// Defaults is the default geometry of a widget type, in grid cells.
type Defaults struct {
	W    int `yaml:"w" json:"w"`
	H    int `yaml:"h" json:"h"`
	MaxH int `yaml:"maxH" json:"maxH"`
	MinH int `yaml:"minH" json:"minH"`
}

// HeaderLink is an optional link shown in a tile header.
type HeaderLink struct {
	Title string `yaml:"title,omitempty" json:"title,omitempty"`
	Href  string `yaml:"href" json:"href,omitempty"`
}

// WidgetConfig is the static display configuration of a widget type.
// Icon is an opaque handle interpreted by the rendering layer; Props are
// passed through to it untouched.
type WidgetConfig struct {
	Title      string            `yaml:"title,omitempty" json:"title,omitempty"`
	Icon       string            `yaml:"icon,omitempty" json:"icon,omitempty"`
	HeaderLink *HeaderLink       `yaml:"header_link,omitempty" json:"headerLink,omitempty"`
	Props      map[string]string `yaml:"props,omitempty" json:"props,omitempty"`
}

// Clone returns a deep copy of c. A nil config stays nil.
func (c *WidgetConfig) Clone() *WidgetConfig {
	if c == nil {
		return nil
	}
	out := *c
	if c.HeaderLink != nil {
		link := *c.HeaderLink
		out.HeaderLink = &link
	}
	if c.Props != nil {
		out.Props = make(map[string]string, len(c.Props))
		for k, v := range c.Props {
			out.Props[k] = v
		}
	}
	return &out
}

// RenderFunc produces the content of one widget instance.
type RenderFunc func(instanceID string) string

// Entry registers a widget type with the layout.
type Entry struct {
	Type     string
	Defaults Defaults
	Config   *WidgetConfig
	Render   RenderFunc
}

// DisplayTitle returns the configured title, falling back to the type.
func (e Entry) DisplayTitle() string {
	if e.Config != nil && e.Config.Title != "" {
		return e.Config.Title
	}
	return e.Type
}

// Catalog is an immutable, insertion-ordered table of widget types.
type Catalog struct {
	order   []string
	entries map[string]Entry
}

// NewCatalog builds a catalog. A repeated type replaces the earlier entry
// but keeps its position.
func NewCatalog(entries ...Entry) *Catalog {
	c := &Catalog{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if _, ok := c.entries[e.Type]; !ok {
			c.order = append(c.order, e.Type)
		}
		e.Config = e.Config.Clone()
		c.entries[e.Type] = e
	}
	return c
}

// Lookup returns the entry for a widget type.
func (c *Catalog) Lookup(widgetType string) (Entry, bool) {
	if c == nil {
		return Entry{}, false
	}
	e, ok := c.entries[widgetType]
	return e, ok
}

// Has reports whether the widget type is registered.
func (c *Catalog) Has(widgetType string) bool {
	_, ok := c.Lookup(widgetType)
	return ok
}

// Types returns the registered types in registration order.
func (c *Catalog) Types() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.order...)
}

// Entries returns the entries in registration order.
func (c *Catalog) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, 0, len(c.order))
	for _, t := range c.order {
		out = append(out, c.entries[t])
	}
	return out
}

// Len returns the number of registered types.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

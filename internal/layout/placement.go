package layout

// NewItemTitle is the title given to a freshly dropped widget.
const NewItemTitle = "New title"

type dropOptions struct {
	mint func(widgetType string) string
}

// DropOption customizes PlaceDrop.
type DropOption func(*dropOptions)

// WithIDMinter replaces the identifier generator used for the new item.
func WithIDMinter(mint func(widgetType string) string) DropOption {
	return func(o *dropOptions) {
		o.mint = mint
	}
}

// PlaceDrop returns the template that results from dropping a catalog
// entry onto the active breakpoint at the landing geometry. Every
// breakpoint receives the new item; narrower breakpoints get its width and
// x clamped to their column count. Existing items are pushed down by the
// new item's height unless they end to the right of its left edge and
// above its top row. An unknown widget type leaves t untouched and
// reports false.
func PlaceDrop(t Template, active Breakpoint, c *Catalog, widgetType string, landing Item, opts ...DropOption) (Template, bool) {
	entry, ok := c.Lookup(widgetType)
	if !ok {
		return t, false
	}
	o := dropOptions{mint: Mint}
	for _, opt := range opts {
		opt(&o)
	}

	id := o.mint(widgetType)
	out := NewTemplate()
	for _, bp := range Breakpoints {
		placed := newDropItem(entry, id, bp, active, landing)
		items := make([]Item, 0, len(t[bp])+1)
		items = append(items, placed)
		for _, cur := range t[bp] {
			cur = cur.clone()
			if !keepOnDrop(cur, placed) {
				cur.Y += placed.H
			}
			items = append(items, cur)
		}
		out[bp] = items
	}
	return out, true
}

func newDropItem(e Entry, id string, bp, active Breakpoint, landing Item) Item {
	it := Item{
		ID:     id,
		X:      landing.X,
		Y:      landing.Y,
		W:      e.Defaults.W,
		H:      e.Defaults.H,
		MaxH:   e.Defaults.MaxH,
		MinH:   e.Defaults.MinH,
		Title:  NewItemTitle,
		Config: e.Config.Clone(),
	}
	if bp == active {
		// The grid never reports geometry wider than its columns; the clamp
		// only matters for hand-built landing items.
		it.W = min(landing.W, bp.Columns())
		it.X = min(landing.X, bp.Columns())
		it.H = landing.H
	} else {
		it.W = min(e.Defaults.W, bp.Columns())
		it.X = min(landing.X, bp.Columns())
	}
	it.WidgetType = WidgetTypeOf(id)
	return it
}

// keepOnDrop is deliberately coarse: it does not test horizontal overlap.
func keepOnDrop(cur, placed Item) bool {
	return cur.Right() > placed.X && cur.Bottom() <= placed.Y
}

// Placeholder returns the in-flight drop item shown while a catalog entry
// is dragged over the grid.
func Placeholder(c *Catalog, widgetType string) (Item, bool) {
	e, ok := c.Lookup(widgetType)
	if !ok {
		return Item{}, false
	}
	return Item{
		ID:         DropPlaceholderID,
		W:          e.Defaults.W,
		H:          e.Defaults.H,
		MaxH:       e.Defaults.MaxH,
		MinH:       e.Defaults.MinH,
		Title:      NewItemTitle,
		WidgetType: widgetType,
		Config:     e.Config.Clone(),
	}, true
}

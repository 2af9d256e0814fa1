package layout

// Packer places widgets left to right on a fixed-width grid, wrapping to a
// new row when the next widget does not fit.
type Packer struct {
	GridWidth int
	cursorX   int
	cursorY   int
	rowHeight int
}

// NewPacker creates a packer for the column count of bp.
func NewPacker(bp Breakpoint) *Packer {
	return &Packer{GridWidth: bp.Columns()}
}

// Reset starts a new arrangement on the column count of bp.
func (p *Packer) Reset(bp Breakpoint) {
	p.GridWidth = bp.Columns()
	p.cursorX = 0
	p.cursorY = 0
	p.rowHeight = 0
}

// Place positions a widget and returns its (x, y). Widths wider than the
// grid are clamped.
func (p *Packer) Place(width, height int) (x, y, w int) {
	w = min(width, p.GridWidth)
	if p.cursorX+w > p.GridWidth {
		p.cursorY += p.rowHeight
		p.cursorX = 0
		p.rowHeight = 0
	}
	x = p.cursorX
	y = p.cursorY
	p.cursorX += w
	if height > p.rowHeight {
		p.rowHeight = height
	}
	return x, y, w
}

// Seed builds a starting template holding one instance of each listed
// widget type, packed in order at every breakpoint. Unknown types are
// skipped. Each instance shares its identifier across breakpoints.
func Seed(c *Catalog, widgetTypes []string, mint func(string) string) Template {
	if mint == nil {
		mint = Mint
	}
	var entries []Entry
	var ids []string
	for _, t := range widgetTypes {
		e, ok := c.Lookup(t)
		if !ok {
			continue
		}
		entries = append(entries, e)
		ids = append(ids, mint(t))
	}

	out := NewTemplate()
	p := NewPacker(XL)
	for _, bp := range Breakpoints {
		p.Reset(bp)
		items := make([]Item, 0, len(entries))
		for i, e := range entries {
			x, y, w := p.Place(e.Defaults.W, e.Defaults.H)
			items = append(items, Item{
				ID:         ids[i],
				X:          x,
				Y:          y,
				W:          w,
				H:          e.Defaults.H,
				MaxH:       e.Defaults.MaxH,
				MinH:       e.Defaults.MinH,
				Title:      e.DisplayTitle(),
				WidgetType: e.Type,
				Config:     e.Config.Clone(),
			})
		}
		out[bp] = items
	}
	return out
}

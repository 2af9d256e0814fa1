package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wcatz/widget-layout/internal/layout"
	"github.com/wcatz/widget-layout/internal/session"
)

// canvas is a fixed-size block of runes that tiles are painted onto.
type canvas [][]rune

func newCanvas(width, height int) canvas {
	c := make(canvas, height)
	for i := range c {
		c[i] = []rune(strings.Repeat(" ", width))
	}
	return c
}

func (c canvas) set(x, y int, r rune) {
	if y < 0 || y >= len(c) || x < 0 || x >= len(c[y]) {
		return
	}
	c[y][x] = r
}

func (c canvas) text(x, y, n int, s string) {
	for i, r := range []rune(truncate(s, n)) {
		c.set(x+i, y, r)
	}
}

func (c canvas) String() string {
	lines := make([]string, len(c))
	for i, l := range c {
		lines[i] = string(l)
	}
	return strings.Join(lines, "\n")
}

type box struct {
	x, y, w, h int
	border     lipgloss.Border
	title      string
	body       string
}

func (c canvas) box(b box) {
	if b.w < 2 || b.h < 2 {
		return
	}
	x1, y1 := b.x+b.w-1, b.y+b.h-1
	for x := b.x + 1; x < x1; x++ {
		c.set(x, b.y, first(b.border.Top))
		c.set(x, y1, first(b.border.Bottom))
	}
	for y := b.y + 1; y < y1; y++ {
		c.set(b.x, y, first(b.border.Left))
		c.set(x1, y, first(b.border.Right))
	}
	c.set(b.x, b.y, first(b.border.TopLeft))
	c.set(x1, b.y, first(b.border.TopRight))
	c.set(b.x, y1, first(b.border.BottomLeft))
	c.set(x1, y1, first(b.border.BottomRight))

	inner := b.w - 2
	if b.h > 2 {
		c.text(b.x+1, b.y+1, inner, b.title)
	} else {
		// no room inside, write the title over the top edge
		c.text(b.x+1, b.y, inner, b.title)
	}
	if b.h > 3 {
		c.text(b.x+1, b.y+2, inner, b.body)
	}
}

// MaxPreviewRows bounds the preview height in grid rows. Tiles below it
// are cut off.
const MaxPreviewRows = 100

// Grid draws the tiles of the active arrangement as boxes on a character
// grid. Locked tiles get a thick border and the in-flight drop a dashed
// ASCII one.
func Grid(v session.View, opts Options) string {
	opts = opts.withDefaults()
	cols := v.Columns
	if cols <= 0 {
		cols = v.Breakpoint.Columns()
	}

	rows := 0
	for _, t := range v.Tiles {
		rows = max(rows, t.Item.Bottom())
	}
	if v.Placeholder != nil {
		rows = max(rows, v.Placeholder.Bottom())
	}
	rows = min(max(rows, 1), MaxPreviewRows)

	width := cols * opts.CellWidth
	c := newCanvas(width, rows*opts.RowHeight)
	place := func(it layout.Item, b box) box {
		if it.X < 0 || it.Y < 0 || it.Y >= rows {
			return box{}
		}
		w := min(it.W, cols-min(it.X, cols))
		h := min(it.H, rows-it.Y)
		b.x = it.X * opts.CellWidth
		b.y = it.Y * opts.RowHeight
		b.w = w * opts.CellWidth
		b.h = h * opts.RowHeight
		return b
	}

	for _, t := range v.Tiles {
		b := box{border: lipgloss.RoundedBorder(), title: t.Title, body: t.Content}
		if t.Actions.Locked {
			b.border = lipgloss.ThickBorder()
			b.title = "[locked] " + t.Title
		}
		c.box(place(t.Item, b))
	}
	if p := v.Placeholder; p != nil {
		c.box(place(*p, box{border: lipgloss.ASCIIBorder(), title: "drop here"}))
	}
	return c.String()
}

func first(s string) rune {
	for _, r := range s {
		return r
	}
	return ' '
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

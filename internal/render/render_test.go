package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wcatz/widget-layout/internal/layout"
	"github.com/wcatz/widget-layout/internal/session"
)

func testView() session.View {
	return session.View{
		Breakpoint: layout.XL,
		Width:      1600,
		Columns:    4,
		ShowDrawer: true,
		Tiles: []session.Tile{
			{
				Item:    layout.Item{ID: "a#1", X: 0, Y: 0, W: 2, H: 3},
				Title:   "Alerts",
				Content: "3 firing",
			},
			{
				Item:    layout.Item{ID: "b#1", X: 2, Y: 0, W: 2, H: 2, Static: true},
				Title:   "Clusters",
				Actions: session.Actions{Locked: true},
			},
		},
		Drawer: []session.DrawerEntry{
			{Type: "c", Title: "Cost", Defaults: layout.Defaults{W: 1, H: 2}},
		},
	}
}

func TestGrid(t *testing.T) {
	out := Grid(testView(), Options{CellWidth: 10, RowHeight: 2})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 6)
	for _, l := range lines {
		assert.Equal(t, 40, len([]rune(l)))
	}

	row0 := []rune(lines[0])
	assert.Equal(t, '╭', row0[0])
	assert.Equal(t, '╮', row0[19])
	assert.Equal(t, '┏', row0[20])
	assert.Equal(t, '┓', row0[39])
	assert.Contains(t, lines[1], "Alerts")
	assert.Contains(t, lines[1], "[locked] Clusters")
	assert.Contains(t, lines[2], "3 firing")
	assert.Equal(t, '╰', []rune(lines[5])[0])
}

func TestGridPlaceholderAndClamp(t *testing.T) {
	v := testView()
	v.Tiles = nil
	v.Placeholder = &layout.Item{ID: layout.DropPlaceholderID, X: 3, Y: 1, W: 3, H: 1}

	out := Grid(v, Options{CellWidth: 12, RowHeight: 2})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	row := []rune(lines[2])
	require.Len(t, row, 48)
	assert.Equal(t, '+', row[36])
	assert.Equal(t, '+', row[47], "width is clamped to the column count")
	assert.Contains(t, lines[2], "drop here")
}

func TestPreview(t *testing.T) {
	v := testView()
	out := Preview(v, Options{})
	assert.Contains(t, out, "xl | 4 columns | 1600px")
	assert.Contains(t, out, "Alerts")
	assert.NotContains(t, out, "Add widgets")

	v.DrawerOpen = true
	v.DrawerInstructionText = "Drag to add"
	out = Preview(v, Options{})
	assert.Contains(t, out, "Add widgets")
	assert.Contains(t, out, "+ Cost")
}

func TestPreviewEmptyState(t *testing.T) {
	v := session.View{
		Breakpoint:        layout.SM,
		Width:             600,
		Columns:           1,
		EmptyState:        true,
		DocumentationLink: "https://example.com/docs",
	}
	out := Preview(v, Options{})
	assert.Contains(t, out, EmptyStateTitle)
	assert.Contains(t, out, "https://example.com/docs")
}

func TestResolveHeaderLink(t *testing.T) {
	const origin = "https://console.example.com"
	tests := []struct {
		name string
		href string
		want Link
	}{
		{"same origin", "https://console.example.com/alerts/list", Link{Href: "/alerts/list"}},
		{"same origin root", "https://console.example.com", Link{Href: "/"}},
		{"other origin", "https://docs.example.com/guide", Link{Href: "https://docs.example.com/guide", Target: "_blank"}},
		{"relative", "/alerts", Link{Href: "/alerts"}},
		{"garbage", "://nope", Link{Href: "://nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveHeaderLink(tt.href, origin))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab…", truncate("abcd", 3))
	assert.Equal(t, "", truncate("abcd", 0))
}

func TestGridCapsHeight(t *testing.T) {
	v := session.View{
		Breakpoint: layout.XL,
		Columns:    4,
		Tiles: []session.Tile{
			{Item: layout.Item{ID: "a#1", X: 0, Y: 0, W: 1, H: 2}, Title: "Top"},
			{Item: layout.Item{ID: "b#1", X: 1, Y: 1 << 62, W: 1, H: 1}, Title: "Far"},
			{Item: layout.Item{ID: "c#1", X: 2, Y: 5e8, W: 1, H: 5e8}, Title: "Tall"},
			{Item: layout.Item{ID: "d#1", X: 3, Y: MaxPreviewRows - 1, W: 1, H: 50}, Title: "Cut"},
		},
	}
	var out string
	require.NotPanics(t, func() { out = Grid(v, Options{CellWidth: 10, RowHeight: 1}) })
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, MaxPreviewRows)
	assert.Contains(t, out, "Top")
	assert.NotContains(t, out, "Far")
	assert.NotContains(t, out, "Tall")
}

func TestGridCapsCellSize(t *testing.T) {
	v := testView()
	out := Grid(v, Options{CellWidth: 1 << 40, RowHeight: 1 << 40})
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3*maxRowHeight)
	assert.Len(t, []rune(lines[0]), 4*maxCellWidth)
}

// Package render draws session views for terminals.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wcatz/widget-layout/internal/session"
)

// Empty state copy.
const (
	EmptyStateTitle = "No dashboard content"
	EmptyStateBody  = "You don't have any widgets on your dashboard. To populate your dashboard, drag items from the widget drawer to this dashboard."
	LearnMoreLabel  = "Learn more about widget dashboard"
)

var (
	colorPrimary = lipgloss.Color("#BD93F9")
	colorMuted   = lipgloss.Color("#6272A4")
	colorWarning = lipgloss.Color("#FFB86C")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	gridStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(colorMuted)
	drawerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(0, 1)
	emptyStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(colorWarning).
			Padding(1, 2)
)

// Options controls the preview size.
type Options struct {
	// CellWidth is the number of characters per grid column.
	CellWidth int
	// RowHeight is the number of lines per grid row.
	RowHeight int
}

const (
	maxCellWidth = 120
	maxRowHeight = 10
)

func (o Options) withDefaults() Options {
	if o.CellWidth <= 0 {
		o.CellWidth = 24
	}
	o.CellWidth = min(o.CellWidth, maxCellWidth)
	if o.RowHeight <= 0 {
		o.RowHeight = 2
	}
	o.RowHeight = min(o.RowHeight, maxRowHeight)
	return o
}

// Preview renders the active arrangement of v with the drawer beside it
// when it is open.
func Preview(v session.View, opts Options) string {
	opts = opts.withDefaults()

	header := headerStyle.Render(fmt.Sprintf("%s | %d columns | %.0fpx", v.Breakpoint, v.Columns, v.Width))
	if v.LayoutLocked {
		header += mutedStyle.Render("  (locked)")
	}

	var body string
	if v.EmptyState {
		body = emptyState(v, opts)
	} else {
		body = gridStyle.Render(Grid(v, opts))
	}
	if v.ShowDrawer && v.DrawerOpen {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, " ", drawer(v))
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func emptyState(v session.View, opts Options) string {
	width := v.Columns*opts.CellWidth - 6
	if width < 20 {
		width = 20
	}
	lines := []string{
		headerStyle.Render(EmptyStateTitle),
		"",
		lipgloss.NewStyle().Width(width).Render(EmptyStateBody),
	}
	if v.DocumentationLink != "" {
		lines = append(lines, "", mutedStyle.Render(LearnMoreLabel+": "+v.DocumentationLink))
	}
	return emptyStyle.Render(strings.Join(lines, "\n"))
}

func drawer(v session.View) string {
	lines := []string{headerStyle.Render("Add widgets")}
	lines = append(lines, mutedStyle.Width(32).Render(v.DrawerInstructionText), "")
	if len(v.Drawer) == 0 {
		lines = append(lines, mutedStyle.Render("All widgets are on the dashboard"))
	}
	for _, e := range v.Drawer {
		lines = append(lines, fmt.Sprintf("+ %s %s", e.Title, mutedStyle.Render(fmt.Sprintf("(%dx%d)", e.Defaults.W, e.Defaults.H))))
	}
	return drawerStyle.Render(strings.Join(lines, "\n"))
}

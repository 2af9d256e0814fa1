package session

import "github.com/wcatz/widget-layout/internal/layout"

// Menu labels for the lock action.
const (
	LockLabel   = "Lock location and size"
	UnlockLabel = "Unlock location and size"
)

// DefaultDrawerInstructionText is shown at the top of the drawer when the
// host does not supply its own text.
const DefaultDrawerInstructionText = "Add new and previously removed widgets by clicking the icon, then drag and drop to a new location. Drag the corners of the cards to resize widgets."

// Actions describes which tile menu entries are enabled.
type Actions struct {
	Locked      bool   `json:"locked"`
	LockLabel   string `json:"lockLabel"`
	CanMaximize bool   `json:"canMaximize"`
	CanMinimize bool   `json:"canMinimize"`
	CanRemove   bool   `json:"canRemove"`
	Draggable   bool   `json:"draggable"`
	Resizable   bool   `json:"resizable"`
}

// Tile is everything a renderer needs to paint one placed widget.
type Tile struct {
	Item       layout.Item        `json:"item"`
	Title      string             `json:"title"`
	Icon       string             `json:"icon,omitempty"`
	HeaderLink *layout.HeaderLink `json:"headerLink,omitempty"`
	Props      map[string]string  `json:"props,omitempty"`
	ColWidth   float64            `json:"colWidth"`
	Content    string             `json:"content"`
	Actions    Actions            `json:"actions"`
}

// DrawerEntry is a catalog entry offered in the add-widget drawer.
type DrawerEntry struct {
	Type     string          `json:"widgetType"`
	Title    string          `json:"title"`
	Icon     string          `json:"icon,omitempty"`
	Defaults layout.Defaults `json:"defaults"`
}

// View is a read-only snapshot of the session for renderers.
type View struct {
	Breakpoint            layout.Breakpoint `json:"breakpoint"`
	Width                 float64           `json:"width"`
	Columns               int               `json:"columns"`
	Template              layout.Template   `json:"template"`
	Tiles                 []Tile            `json:"tiles"`
	Drawer                []DrawerEntry     `json:"drawer"`
	DrawerOpen            bool              `json:"drawerOpen"`
	ShowDrawer            bool              `json:"showDrawer"`
	EmptyState            bool              `json:"emptyState"`
	LayoutLocked          bool              `json:"layoutLocked"`
	Dropping              string            `json:"dropping,omitempty"`
	Placeholder           *layout.Item      `json:"placeholder,omitempty"`
	PlacedTypes           []string          `json:"placedTypes"`
	DocumentationLink     string            `json:"documentationLink,omitempty"`
	DrawerInstructionText string            `json:"drawerInstructionText"`
}

func drawerEntries(entries []layout.Entry) []DrawerEntry {
	out := make([]DrawerEntry, 0, len(entries))
	for _, e := range entries {
		de := DrawerEntry{Type: e.Type, Title: e.DisplayTitle(), Defaults: e.Defaults}
		if e.Config != nil {
			de.Icon = e.Config.Icon
		}
		out = append(out, de)
	}
	return out
}

func tileActions(it layout.Item, layoutLocked bool) Actions {
	a := Actions{
		Locked:      it.Static,
		LockLabel:   LockLabel,
		CanMaximize: !it.Static && it.H != maxHeight(it),
		CanMinimize: !it.Static && it.H != minHeight(it),
		CanRemove:   !it.Static,
		Draggable:   !it.Static && !layoutLocked,
		Resizable:   !it.Static && !layoutLocked,
	}
	if it.Static {
		a.LockLabel = UnlockLabel
	}
	return a
}

// maxHeight is the configured maximum, or the current height when unset.
func maxHeight(it layout.Item) int {
	if it.MaxH > 0 {
		return it.MaxH
	}
	return it.H
}

func minHeight(it layout.Item) int {
	if it.MinH > 0 {
		return it.MinH
	}
	return it.H
}

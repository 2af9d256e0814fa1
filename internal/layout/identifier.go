package layout

import (
	"strings"

	"github.com/google/uuid"
)

// Separator joins the widget type and the instance id in a compound identifier.
const Separator = "#"

// DropPlaceholderID marks the in-flight drop placeholder. Items carrying it
// never survive normalization.
const DropPlaceholderID = "__dropping-elem__"

// Mint returns a compound identifier for a brand-new widget instance.
func Mint(widgetType string) string {
	return MintWith(widgetType, uuid.NewString())
}

// MintWith returns a compound identifier using the supplied instance id.
func MintWith(widgetType, uniqueID string) string {
	return widgetType + Separator + uniqueID
}

// Parse splits a compound identifier on the first separator. An id without
// a separator yields the whole string as the widget type and an empty
// instance id.
func Parse(id string) (widgetType, uniqueID string) {
	widgetType, uniqueID, _ = strings.Cut(id, Separator)
	return widgetType, uniqueID
}

// WidgetTypeOf returns the type segment of a compound identifier.
func WidgetTypeOf(id string) string {
	t, _ := Parse(id)
	return t
}

// Package layout is the reconciliation engine behind the widget grid:
// breakpoint resolution, compound widget identifiers, template
// normalization, drop placement with reflow, and the drawer filter. It
// performs no I/O and every operation returns a new Template value.
package layout

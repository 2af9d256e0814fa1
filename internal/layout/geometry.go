package layout

import (
	"errors"
	"fmt"
)

// ErrInvalidGeometry is returned for items whose position or size is
// negative or beyond MaxExtent.
var ErrInvalidGeometry = errors.New("invalid item geometry")

// MaxExtent bounds every coordinate and size, in grid units.
const MaxExtent = 1000

// ValidateGeometry reports whether the position, size and height bounds
// of it lie in [0, MaxExtent].
func (it Item) ValidateGeometry() error {
	fields := []struct {
		name  string
		value int
	}{
		{"x", it.X}, {"y", it.Y}, {"w", it.W}, {"h", it.H},
		{"maxH", it.MaxH}, {"minH", it.MinH},
	}
	for _, f := range fields {
		if f.value < 0 || f.value > MaxExtent {
			return fmt.Errorf("%w: item %q %s=%d", ErrInvalidGeometry, it.ID, f.name, f.value)
		}
	}
	if it.Y+it.H > MaxExtent {
		return fmt.Errorf("%w: item %q ends below row %d", ErrInvalidGeometry, it.ID, MaxExtent)
	}
	return nil
}

// ValidateItems checks the geometry of every item.
func ValidateItems(items []Item) error {
	for _, it := range items {
		if err := it.ValidateGeometry(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the geometry of every item at every breakpoint.
func (t Template) Validate() error {
	var errs []error
	for _, bp := range Breakpoints {
		if err := ValidateItems(t[bp]); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", bp, err))
		}
	}
	return errors.Join(errs...)
}

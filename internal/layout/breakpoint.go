package layout

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownBreakpoint is returned when a breakpoint key is not one of sm, md, lg, xl.
var ErrUnknownBreakpoint = errors.New("unknown breakpoint")

// Breakpoint is a named container size class. Each one has a fixed column count.
type Breakpoint string

const (
	SM Breakpoint = "sm"
	MD Breakpoint = "md"
	LG Breakpoint = "lg"
	XL Breakpoint = "xl"
)

// Breakpoints lists every size class, widest first.
var Breakpoints = []Breakpoint{XL, LG, MD, SM}

var columns = map[Breakpoint]int{XL: 4, LG: 3, MD: 2, SM: 1}

var thresholds = map[Breakpoint]float64{XL: 1550, LG: 1400, MD: 1100, SM: 800}

// Resolve maps a measured container width to a breakpoint. Widths below
// the md threshold (including zero, negative and NaN) resolve to sm.
func Resolve(width float64) Breakpoint {
	if math.IsNaN(width) {
		return SM
	}
	for _, bp := range Breakpoints[:len(Breakpoints)-1] {
		if width >= thresholds[bp] {
			return bp
		}
	}
	return SM
}

// ParseBreakpoint converts a key such as "lg" into a Breakpoint.
func ParseBreakpoint(s string) (Breakpoint, error) {
	bp := Breakpoint(s)
	if !bp.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownBreakpoint, s)
	}
	return bp, nil
}

// Valid reports whether b is one of the four size classes.
func (b Breakpoint) Valid() bool {
	_, ok := columns[b]
	return ok
}

// Columns returns the grid column count, or 0 for an invalid breakpoint.
func (b Breakpoint) Columns() int {
	return columns[b]
}

// Threshold returns the minimum container width for the breakpoint.
func (b Breakpoint) Threshold() float64 {
	return thresholds[b]
}

func (b Breakpoint) String() string {
	return string(b)
}

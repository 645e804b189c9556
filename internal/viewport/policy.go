package viewport

import "math"

// Range is the inclusive zoom range allowed for an artboard.
type Range struct {
	Min float64
	Max float64
}

// zoomBand maps artboards whose longest side is at least minSide to a range.
type zoomBand struct {
	minSide float64
	rng     Range
}

// Bands are ordered from the largest artboards down.
var zoomBands = []zoomBand{
	{minSide: 10000, rng: Range{Min: 0.01, Max: 5}},
	{minSide: 5000, rng: Range{Min: 0.025, Max: 10}},
	{minSide: 2000, rng: Range{Min: 0.1, Max: 20}},
}

var defaultRange = Range{Min: 0.1, Max: 10}

// AllowedRange returns the zoom range for an artboard of the given size.
// Large boards may zoom further out so they can be seen whole.
func AllowedRange(width, height float64) Range {
	side := math.Max(width, height)
	for _, b := range zoomBands {
		if side >= b.minSide {
			return b.rng
		}
	}
	return defaultRange
}

// Clamp limits zoom to the range. Non-finite or non-positive input falls
// back to Min.
func (r Range) Clamp(zoom float64) float64 {
	if math.IsNaN(zoom) || math.IsInf(zoom, 0) || zoom <= 0 {
		return r.Min
	}
	if zoom > r.Max {
		return r.Max
	}
	if zoom < r.Min {
		return r.Min
	}
	return zoom
}

// Contains reports whether zoom lies in [Min, Max].
func (r Range) Contains(zoom float64) bool {
	return zoom >= r.Min && zoom <= r.Max
}

type tickBand struct {
	upTo      float64 // band applies while zoom < upTo (or <= when inclusive)
	inclusive bool
	interval  float64
}

var tickBands = []tickBand{
	{upTo: 0.02, inclusive: true, interval: 5000},
	{upTo: 0.05, inclusive: true, interval: 2000},
	{upTo: 0.1, inclusive: true, interval: 1000},
	{upTo: 0.2, inclusive: true, interval: 500},
	{upTo: 0.5, inclusive: true, interval: 250},
	{upTo: 1, interval: 100},
	{upTo: 3, interval: 50},
	{upTo: 6, interval: 25},
	{upTo: 8, interval: 10},
	{upTo: 20, interval: 5},
}

const finestInterval = 2

// TickInterval returns the world-unit spacing between ruler ticks at zoom.
// Coarser at low zoom so the tick count per screen stays bounded.
func TickInterval(zoom float64) float64 {
	if math.IsNaN(zoom) || zoom <= 0 {
		return tickBands[0].interval
	}
	for _, b := range tickBands {
		if zoom < b.upTo || (b.inclusive && zoom == b.upTo) {
			return b.interval
		}
	}
	return finestInterval
}

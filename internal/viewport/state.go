// Package viewport maps world coordinates to screen pixels under pan and
// zoom, and holds the policies that bound zoom and space ruler ticks.
package viewport

import (
	"math"

	"artboard-studio/pkg/geometry"
)

// State is the authoritative pan/zoom of one canvas.
//
// The transform is always a uniform scale plus translation:
// A == D == zoom and B == C == 0. Every conversion is derived from it on
// demand; nothing is cached.
type State struct {
	transform geometry.AffineTransform
	scroll    geometry.Point2D // page scroll offset in screen pixels
	size      geometry.Size    // canvas size in screen pixels
	rng       Range
}

// New returns a viewport of the given pixel size at zoom 1 with no pan.
func New(width, height float64) *State {
	return &State{
		transform: geometry.Identity(),
		size:      geometry.NewSize(width, height),
		rng:       defaultRange,
	}
}

// Zoom returns the current zoom scalar.
func (s *State) Zoom() float64 {
	return s.transform.A
}

// Pan returns the translation components (tx, ty) in screen pixels.
func (s *State) Pan() geometry.Point2D {
	return geometry.Point2D{X: s.transform.TX, Y: s.transform.TY}
}

// Transform returns the world-to-screen transform.
func (s *State) Transform() geometry.AffineTransform {
	return s.transform
}

// Array returns the transform in canvas order [a, b, c, d, tx, ty].
func (s *State) Array() [6]float64 {
	return s.transform.ToArray()
}

// Size returns the canvas size in screen pixels.
func (s *State) Size() geometry.Size {
	return s.size
}

// SetSize updates the canvas pixel dimensions.
func (s *State) SetSize(width, height float64) {
	s.size = geometry.NewSize(width, height)
}

// ScrollOffset returns the page scroll offset.
func (s *State) ScrollOffset() geometry.Point2D {
	return s.scroll
}

// SetScrollOffset records the page scroll offset that shifts the visible
// origin without touching the transform.
func (s *State) SetScrollOffset(p geometry.Point2D) {
	s.scroll = p
}

// Range returns the zoom range currently enforced.
func (s *State) Range() Range {
	return s.rng
}

// SetRange changes the enforced zoom range, typically from AllowedRange of
// the active artboard. The current zoom is not re-clamped.
func (s *State) SetRange(r Range) {
	if r.Min <= 0 || r.Max < r.Min {
		r = defaultRange
	}
	s.rng = r
}

// SetViewport replaces the transform with zoom and translation.
// Invalid zoom is coerced to the range minimum.
func (s *State) SetViewport(zoom, tx, ty float64) {
	zoom = s.sanitize(zoom)
	s.transform = geometry.AffineTransform{A: zoom, D: zoom, TX: tx, TY: ty}
}

// sanitize only repairs invalid zoom values; in-range limits are the
// caller's job through Range.Clamp.
func (s *State) sanitize(zoom float64) float64 {
	if math.IsNaN(zoom) || math.IsInf(zoom, 0) || zoom <= 0 {
		return s.rng.Min
	}
	return zoom
}

// WorldToScreen applies the transform.
func (s *State) WorldToScreen(p geometry.Point2D) geometry.Point2D {
	return s.transform.Apply(p)
}

// ScreenToWorld applies the inverse transform.
func (s *State) ScreenToWorld(p geometry.Point2D) geometry.Point2D {
	inv, ok := s.transform.Inverse()
	if !ok {
		return p
	}
	return inv.Apply(p)
}

// VisibleTopLeft returns the world coordinate under the screen origin,
// accounting for page scroll: (-translation + scroll) / zoom.
func (s *State) VisibleTopLeft() geometry.Point2D {
	zoom := s.Zoom()
	return geometry.Point2D{
		X: (-s.transform.TX + s.scroll.X) / zoom,
		Y: (-s.transform.TY + s.scroll.Y) / zoom,
	}
}

// VisibleRect returns the world-space rectangle covered by the canvas.
func (s *State) VisibleRect() geometry.Rect {
	tl := s.VisibleTopLeft()
	zoom := s.Zoom()
	return geometry.NewRect(tl.X, tl.Y, s.size.Width/zoom, s.size.Height/zoom)
}

// VisibleExtent returns the world coordinates of the far visible edges,
// (extent - pan) / zoom on each axis.
func (s *State) VisibleExtent() geometry.Point2D {
	zoom := s.Zoom()
	return geometry.Point2D{
		X: (s.size.Width - s.transform.TX) / zoom,
		Y: (s.size.Height - s.transform.TY) / zoom,
	}
}

// ZoomToPoint changes zoom while keeping the world point under the screen
// point fixed.
func (s *State) ZoomToPoint(screen geometry.Point2D, zoom float64) {
	zoom = s.sanitize(zoom)
	world := s.ScreenToWorld(screen)
	s.transform = geometry.AffineTransform{
		A:  zoom,
		D:  zoom,
		TX: screen.X - world.X*zoom,
		TY: screen.Y - world.Y*zoom,
	}
}

// Center returns the screen-space centre of the canvas.
func (s *State) Center() geometry.Point2D {
	return geometry.Point2D{X: s.size.Width / 2, Y: s.size.Height / 2}
}

// PanBy subtracts raw pixel deltas from the translation. The deltas are not
// scaled by zoom.
func (s *State) PanBy(dx, dy float64) {
	s.transform.TX -= dx
	s.transform.TY -= dy
}

// Package snap aligns a moving object with the edges and centres of nearby
// objects and drives the six guide lines that show the alignment.
package snap

import (
	"math"

	"gonum.org/v1/gonum/floats/scalar"

	"artboard-studio/pkg/geometry"
)

// GuideName is the closed set of snap guides.
type GuideName int

const (
	GuideLeft GuideName = iota
	GuideRight
	GuideTop
	GuideBottom
	GuideCenterX
	GuideCenterY

	guideCount = 6
)

// GuideNames lists every guide in a stable order.
var GuideNames = [guideCount]GuideName{GuideLeft, GuideRight, GuideTop, GuideBottom, GuideCenterX, GuideCenterY}

func (g GuideName) String() string {
	switch g {
	case GuideLeft:
		return "left"
	case GuideRight:
		return "right"
	case GuideTop:
		return "top"
	case GuideBottom:
		return "bottom"
	case GuideCenterX:
		return "centerX"
	case GuideCenterY:
		return "centerY"
	default:
		return "unknown"
	}
}

// Vertical reports whether the guide is drawn as a vertical line, i.e. it
// marks an x coordinate.
func (g GuideName) Vertical() bool {
	switch g {
	case GuideLeft, GuideRight, GuideCenterX:
		return true
	case GuideTop, GuideBottom, GuideCenterY:
		return false
	default:
		return false
	}
}

// GuideState is the computed visibility and coordinate of one guide.
type GuideState struct {
	Active   bool
	Position float64
}

// Result is the outcome of one snap computation.
type Result struct {
	// Target is the target rectangle after snapping.
	Target   geometry.Rect
	Dx, Dy   float64
	SnappedX bool
	SnappedY bool
	Guides   [guideCount]GuideState
}

// Guide returns the state of the named guide.
func (r Result) Guide(name GuideName) GuideState {
	if name < 0 || int(name) >= guideCount {
		return GuideState{}
	}
	return r.Guides[name]
}

const coincideTol = 1e-9

// features are the leading edge, trailing edge and centre along one axis.
type features [3]float64

func xFeatures(r geometry.Rect) features { return features{r.Left(), r.Right(), r.CenterX()} }
func yFeatures(r geometry.Rect) features { return features{r.Top(), r.Bottom(), r.CenterY()} }

// Compute snaps target against candidates within tolerance, in world units.
//
// Each axis is resolved independently. Every target feature (leading,
// trailing, centre) is tested against every candidate feature, giving nine
// pairs per candidate. A pair matches when its distance is strictly below
// tolerance; the nearest match wins, ties going to the earlier candidate and
// then to the earlier pair. A guide is active when, after snapping, its
// target feature coincides with a feature of any candidate.
func Compute(target geometry.Rect, candidates []geometry.Rect, tolerance float64) Result {
	res := Result{Target: target}
	if math.IsNaN(tolerance) || tolerance <= 0 {
		res.fillPositions()
		return res
	}

	xs := make([]features, len(candidates))
	ys := make([]features, len(candidates))
	for i, c := range candidates {
		xs[i] = xFeatures(c)
		ys[i] = yFeatures(c)
	}

	res.Dx, res.SnappedX = nearest(xFeatures(target), xs, tolerance)
	res.Dy, res.SnappedY = nearest(yFeatures(target), ys, tolerance)
	res.Target.X += res.Dx
	res.Target.Y += res.Dy
	res.fillPositions()

	if res.SnappedX {
		active := coincident(xFeatures(res.Target), xs)
		res.Guides[GuideLeft].Active = active[0]
		res.Guides[GuideRight].Active = active[1]
		res.Guides[GuideCenterX].Active = active[2]
	}
	if res.SnappedY {
		active := coincident(yFeatures(res.Target), ys)
		res.Guides[GuideTop].Active = active[0]
		res.Guides[GuideBottom].Active = active[1]
		res.Guides[GuideCenterY].Active = active[2]
	}
	return res
}

func (r *Result) fillPositions() {
	t := r.Target
	r.Guides[GuideLeft].Position = t.Left()
	r.Guides[GuideRight].Position = t.Right()
	r.Guides[GuideTop].Position = t.Top()
	r.Guides[GuideBottom].Position = t.Bottom()
	r.Guides[GuideCenterX].Position = t.CenterX()
	r.Guides[GuideCenterY].Position = t.CenterY()
}

// nearest returns the offset that moves the closest target feature onto a
// candidate feature.
func nearest(target features, candidates []features, tolerance float64) (float64, bool) {
	best := tolerance
	delta := 0.0
	found := false
	for _, c := range candidates {
		for _, t := range target {
			for _, f := range c {
				d := f - t
				if ad := math.Abs(d); ad < best {
					best, delta, found = ad, d, true
				}
			}
		}
	}
	// Already aligned; don't drift by rounding error.
	if math.Abs(delta) <= coincideTol {
		delta = 0
	}
	return delta, found
}

func coincident(target features, candidates []features) [3]bool {
	var out [3]bool
	for _, c := range candidates {
		for i, t := range target {
			for _, f := range c {
				if scalar.EqualWithinAbsOrRel(t, f, coincideTol, coincideTol) {
					out[i] = true
				}
			}
		}
	}
	return out
}

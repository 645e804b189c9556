package snap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artboard-studio/internal/scene"
	"artboard-studio/internal/viewport"
	"artboard-studio/pkg/colorutil"
	"artboard-studio/pkg/geometry"
)

func activeGuides(r Result) []GuideName {
	var out []GuideName
	for _, n := range GuideNames {
		if r.Guide(n).Active {
			out = append(out, n)
		}
	}
	return out
}

func TestComputeNoSnapOutsideTolerance(t *testing.T) {
	target := geometry.NewRect(0, 0, 100, 100)
	cand := geometry.NewRect(105, 300, 50, 50)

	res := Compute(target, []geometry.Rect{cand}, 2)
	assert.False(t, res.SnappedX)
	assert.False(t, res.SnappedY)
	assert.Equal(t, target, res.Target)
	assert.Empty(t, activeGuides(res))
}

func TestComputeEdgeToEdge(t *testing.T) {
	target := geometry.NewRect(0, 0, 100, 100)
	cand := geometry.NewRect(101, 300, 50, 50)

	res := Compute(target, []geometry.Rect{cand}, 2)
	require.True(t, res.SnappedX)
	assert.False(t, res.SnappedY)
	assert.Equal(t, 1.0, res.Target.X)
	assert.Equal(t, 0.0, res.Target.Y)
	assert.Equal(t, []GuideName{GuideRight}, activeGuides(res))
	assert.Equal(t, 101.0, res.Guide(GuideRight).Position)
}

func TestComputeStrictTolerance(t *testing.T) {
	target := geometry.NewRect(0, 0, 100, 100)
	cand := geometry.NewRect(102, 300, 50, 50)

	res := Compute(target, []geometry.Rect{cand}, 2)
	assert.False(t, res.SnappedX)
}

func TestComputeIsFixedPoint(t *testing.T) {
	cands := []geometry.Rect{
		geometry.NewRect(101.3, 40.7, 50, 33.3),
		geometry.NewRect(-80, 0.1, 7, 9),
	}
	first := Compute(geometry.NewRect(0.2, 0.4, 100, 100), cands, 2)
	require.True(t, first.SnappedX)

	second := Compute(first.Target, cands, 2)
	assert.Equal(t, first.Target, second.Target)
	assert.Zero(t, second.Dx)
	assert.Zero(t, second.Dy)
	assert.Equal(t, activeGuides(first), activeGuides(second))
}

func TestComputeSymmetry(t *testing.T) {
	a := geometry.NewRect(101, 0, 50, 50)
	b := geometry.NewRect(0, 0, 100, 50)

	// A's left edge near B's right edge.
	ab := Compute(a, []geometry.Rect{b}, 2)
	require.True(t, ab.SnappedX)
	assert.Equal(t, 100.0, ab.Target.Left())
	assert.True(t, ab.Guide(GuideLeft).Active)

	// Moving B instead gives the mirror snap.
	ba := Compute(b, []geometry.Rect{a}, 2)
	require.True(t, ba.SnappedX)
	assert.Equal(t, 101.0, ba.Target.Right())
	assert.True(t, ba.Guide(GuideRight).Active)
}

func TestComputeNearestWins(t *testing.T) {
	target := geometry.NewRect(0, 0, 100, 100)
	far := geometry.NewRect(101.5, 500, 10, 10)
	near := geometry.NewRect(100.5, 600, 10, 10)

	res := Compute(target, []geometry.Rect{far, near}, 2)
	assert.Equal(t, 0.5, res.Dx)
	assert.True(t, res.Guide(GuideRight).Active)
}

func TestComputeTieGoesToEarlierCandidate(t *testing.T) {
	target := geometry.NewRect(0, 0, 100, 100)
	before := geometry.NewRect(-1, 500, 60, 10)
	after := geometry.NewRect(101, 600, 50, 10)

	res := Compute(target, []geometry.Rect{before, after}, 2)
	assert.Equal(t, -1.0, res.Dx)
	assert.Equal(t, []GuideName{GuideLeft}, activeGuides(res))

	res = Compute(target, []geometry.Rect{after, before}, 2)
	assert.Equal(t, 1.0, res.Dx)
	assert.Equal(t, []GuideName{GuideRight}, activeGuides(res))
}

func TestComputeCentresAndBothAxes(t *testing.T) {
	target := geometry.NewRect(1, 1, 100, 100)
	cand := geometry.NewRect(0, 0, 100, 100)

	res := Compute(target, []geometry.Rect{cand}, 2)
	assert.Equal(t, geometry.NewRect(0, 0, 100, 100), res.Target)
	assert.ElementsMatch(t, GuideNames[:], activeGuides(res))
	assert.Equal(t, 50.0, res.Guide(GuideCenterX).Position)
}

func TestComputeZeroTolerance(t *testing.T) {
	target := geometry.NewRect(0, 0, 100, 100)
	res := Compute(target, []geometry.Rect{target}, 0)
	assert.False(t, res.SnappedX)
	assert.Empty(t, activeGuides(res))
	assert.Equal(t, 100.0, res.Guide(GuideRight).Position)
}

func TestEngineSnapMovesTargetAndGuides(t *testing.T) {
	store := scene.NewStore()
	vp := viewport.New(500, 500)
	e := NewEngine(store)
	e.CreateGuides(vp)
	require.Len(t, e.Guides(), 6)

	target := scene.NewRect(0, 0, 100, 100, colorutil.Blue)
	cand := scene.NewRect(101, 300, 50, 50, colorutil.Blue)
	ruler := scene.NewRect(99, 300, 50, 50, colorutil.Black)
	ruler.Data.Role = scene.RoleRuler
	ruler.Data.IgnoreSnapping = true
	store.Add(target, cand, ruler)

	res := e.Snap(target, store.Objects(), 2)
	assert.True(t, res.SnappedX)
	assert.Equal(t, 1.0, target.Left)
	assert.Equal(t, 0.0, target.Top)
	assert.Equal(t, 100.0, target.Width)

	right := e.Guide(GuideRight)
	require.NotNil(t, right)
	assert.True(t, right.Active)
	assert.Equal(t, 1.0, right.Object.Opacity)
	assert.Equal(t, 101.0, right.Object.Left)
	assert.Equal(t, 0.0, e.Guide(GuideLeft).Object.Opacity)

	e.Clear()
	for _, g := range e.Guides() {
		assert.False(t, g.Active)
		assert.Equal(t, 0.0, g.Object.Opacity)
	}
}

func TestEngineIgnoresOwnGuides(t *testing.T) {
	store := scene.NewStore()
	e := NewEngine(store)
	e.CreateGuides(viewport.New(500, 500))

	target := scene.NewRect(1, 1, 100, 100, colorutil.Blue)
	store.Add(target)
	res := e.Snap(target, store.Objects(), 2)
	assert.False(t, res.SnappedX)
	assert.False(t, res.SnappedY)
	assert.Equal(t, 1.0, target.Left)
}

func TestCreateGuidesReplacesPrevious(t *testing.T) {
	store := scene.NewStore()
	vp := viewport.New(400, 300)
	e := NewEngine(store)
	e.CreateGuides(vp)
	vp.SetViewport(2, -100, 0)
	e.CreateGuides(vp)

	guides := scene.FilterRulerExcludes(store.Objects())
	assert.Len(t, guides, 6)

	left := e.Guide(GuideLeft).Object
	assert.Equal(t, 0.0, left.Top)
	assert.Equal(t, 150.0, left.Height)
	assert.Equal(t, 0.5, left.StrokeWidth)
	assert.Equal(t, scene.RoleGuide, left.Data.Role)
	assert.False(t, left.Evented)

	top := e.Guide(GuideTop).Object
	assert.Equal(t, 50.0, top.Left)
	assert.Equal(t, 200.0, top.Width)

	e.Remove()
	assert.Equal(t, 0, store.Len())
	assert.Empty(t, e.Guides())
}

func TestEngineNilSafety(t *testing.T) {
	var e *Engine
	assert.NotPanics(t, func() {
		e.CreateGuides(viewport.New(10, 10))
		e.Clear()
		e.Remove()
		assert.Nil(t, e.Guide(GuideLeft))
		e.Snap(scene.NewRect(0, 0, 1, 1, colorutil.Blue), nil, 2)
	})
	assert.NotPanics(t, func() {
		NewEngine(scene.NewStore()).CreateGuides(nil)
	})
}

func TestGuideNames(t *testing.T) {
	for _, n := range GuideNames {
		assert.NotEqual(t, "unknown", n.String())
	}
	assert.True(t, GuideCenterX.Vertical())
	assert.False(t, GuideBottom.Vertical())
	assert.Equal(t, GuideState{}, Result{}.Guide(GuideName(42)))
}

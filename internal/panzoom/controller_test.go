package panzoom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artboard-studio/internal/ruler"
	"artboard-studio/internal/scene"
	"artboard-studio/internal/snap"
	"artboard-studio/internal/viewport"
	"artboard-studio/pkg/colorutil"
	"artboard-studio/pkg/geometry"
)

type stubSettings struct {
	tolerance float64
	ruler     bool
	scheme    colorutil.Scheme
}

func (s stubSettings) SnapTolerance() float64        { return s.tolerance }
func (s stubSettings) RulerVisible() bool            { return s.ruler }
func (s stubSettings) ColorScheme() colorutil.Scheme { return s.scheme }

func newController(t *testing.T, w, h float64) (*Controller, *scene.Store) {
	t.Helper()
	store := scene.NewStore()
	c := New(viewport.New(w, h), store, stubSettings{tolerance: 2, ruler: true})
	c.Attach()
	t.Cleanup(c.Detach)
	return c, store
}

func withArtboard(c *Controller, store *scene.Store, w, h float64) *scene.Object {
	ab := scene.NewArtboard("", 0, 0, w, h)
	store.Add(ab)
	c.SetArtboard(ab)
	return ab
}

func TestWheelPansByRawDeltas(t *testing.T) {
	c, _ := newController(t, 800, 600)
	c.ZoomFromCenter(2)
	before := c.Viewport().Pan()

	c.Wheel(WheelEvent{DeltaX: 10, DeltaY: -20})
	after := c.Viewport().Pan()
	assert.Equal(t, before.X-10, after.X)
	assert.Equal(t, before.Y+20, after.Y)
	assert.Equal(t, 2.0, c.Viewport().Zoom())
}

func TestWheelZoomKeepsPointerFixed(t *testing.T) {
	c, _ := newController(t, 800, 600)
	var seen []float64
	c.OnZoomChange(func(z float64) { seen = append(seen, z) })

	pointer := geometry.NewPoint2D(200, 150)
	world := c.Viewport().ScreenToWorld(pointer)
	c.Wheel(WheelEvent{DeltaY: -100, Ctrl: true, Position: pointer})

	want := math.Pow(0.99, -100)
	assert.InDelta(t, want, c.Viewport().Zoom(), 1e-9)
	got := c.Viewport().ScreenToWorld(pointer)
	assert.InDelta(t, world.X, got.X, 1e-9)
	assert.InDelta(t, world.Y, got.Y, 1e-9)
	require.Len(t, seen, 1)
	assert.InDelta(t, want, seen[0], 1e-9)
}

func TestWheelZoomIsClamped(t *testing.T) {
	c, _ := newController(t, 800, 600)
	c.Wheel(WheelEvent{DeltaY: -1000, Meta: true})
	assert.Equal(t, 10.0, c.Viewport().Zoom())
	c.Wheel(WheelEvent{DeltaY: 2000, Meta: true})
	assert.Equal(t, 0.1, c.Viewport().Zoom())
}

func TestZoomToFitCentresArtboard(t *testing.T) {
	c, store := newController(t, 1000, 800)
	withArtboard(c, store, 500, 500)

	require.NoError(t, c.ZoomToFit())
	vp := c.Viewport()
	assert.InDelta(t, 1.28, vp.Zoom(), 1e-9)
	centre := vp.WorldToScreen(geometry.NewPoint2D(250, 250))
	assert.InDelta(t, 500, centre.X, 1e-9)
	assert.InDelta(t, 400, centre.Y, 1e-9)
}

func TestZoomToFitWithoutArtboard(t *testing.T) {
	c, _ := newController(t, 1000, 800)
	assert.ErrorIs(t, c.ZoomToFit(), ErrNoArtboard)
	assert.ErrorIs(t, c.CenterArtboard(), ErrNoArtboard)
}

func TestZoomFromCenterRespectsArtboardRange(t *testing.T) {
	c, store := newController(t, 1000, 800)
	withArtboard(c, store, 12000, 3000)

	assert.Equal(t, 5.0, c.ZoomFromCenter(100))
	assert.Equal(t, 0.01, c.ZoomFromCenter(0.001))
	assert.Equal(t, 0.01, c.ZoomFromCenter(math.NaN()))
	assert.Equal(t, 0.01, c.ZoomFromCenter(math.Inf(1)))

	c.SetArtboard(nil)
	assert.Equal(t, 10.0, c.ZoomFromCenter(100))
}

func TestZoomStepsAndReset(t *testing.T) {
	c, store := newController(t, 1000, 800)
	withArtboard(c, store, 400, 400)

	assert.InDelta(t, 1.1, c.ZoomIn(), 1e-9)
	assert.InDelta(t, 1.0, c.ZoomOut(), 1e-9)
	c.ZoomFromCenter(3)
	c.ResetZoom()
	assert.Equal(t, 1.0, c.Viewport().Zoom())
	centre := c.Viewport().WorldToScreen(geometry.NewPoint2D(200, 200))
	assert.InDelta(t, 500, centre.X, 1e-9)
	assert.InDelta(t, 400, centre.Y, 1e-9)
}

func TestAttachDetachIsSymmetric(t *testing.T) {
	store := scene.NewStore()
	content := scene.NewRect(0, 0, 10, 10, colorutil.Blue)
	store.Add(content)
	c := New(viewport.New(400, 300), store, nil)

	events := []scene.EventType{scene.EventPointerDown, scene.EventObjectMoving,
		scene.EventObjectModified, scene.EventSelectionCleared, scene.EventObjectAdded}
	for i := 0; i < 3; i++ {
		c.Attach()
		c.Attach()
		for _, ev := range events {
			assert.Equal(t, 1, store.ListenerCount(ev))
		}
		assert.Greater(t, store.Len(), 1)

		c.Detach()
		for _, ev := range events {
			assert.Equal(t, 0, store.ListenerCount(ev))
		}
		assert.Equal(t, []*scene.Object{content}, store.Objects())
	}
}

func TestMovingSnapsAndModifiedClears(t *testing.T) {
	c, store := newController(t, 500, 500)
	target := scene.NewRect(0, 0, 100, 100, colorutil.Blue)
	cand := scene.NewRect(101, 300, 50, 50, colorutil.Blue)
	store.Add(target, cand)

	store.Emit(scene.EventObjectMoving, scene.Event{Target: target})
	assert.Equal(t, 1.0, target.Left)
	right := c.Snap().Guide(snap.GuideRight)
	require.NotNil(t, right)
	assert.True(t, right.Active)

	store.Emit(scene.EventObjectModified, scene.Event{Target: target})
	assert.False(t, right.Active)
	assert.Equal(t, 0.0, right.Object.Opacity)
}

func TestRulerDragLineLifecycle(t *testing.T) {
	c, store := newController(t, 500, 500)
	bar := c.Ruler().Elements(ruler.AxisBackgroundX)[0].Object

	store.Emit(scene.EventPointerDown, scene.Event{Target: bar, Pointer: geometry.NewPoint2D(123, 5)})
	lines := c.Ruler().Elements(ruler.DragLineX)
	require.Len(t, lines, 1)

	line := lines[0].Object
	line.SetPosition(150, 0)
	store.Emit(scene.EventObjectMoving, scene.Event{Target: line})
	assert.Equal(t, "150", lines[0].Label.Text)
	assert.Equal(t, 150.0, line.Left)

	store.Emit(scene.EventSelectionCleared, scene.Event{})
	assert.Empty(t, c.Ruler().Elements(ruler.DragLineX, ruler.DragLabel))
}

func TestHiddenRulerIgnoresPointer(t *testing.T) {
	c, store := newController(t, 500, 500)
	bar := c.Ruler().Elements(ruler.AxisBackgroundX)[0].Object

	c.SetRulerVisible(false)
	assert.Empty(t, c.Ruler().Elements())
	store.Emit(scene.EventPointerDown, scene.Event{Target: bar, Pointer: geometry.NewPoint2D(10, 5)})
	assert.Empty(t, c.Ruler().Elements())
	c.Wheel(WheelEvent{DeltaX: 5})
	assert.Empty(t, c.Ruler().Elements())

	c.SetRulerVisible(true)
	assert.Len(t, c.Ruler().Elements(ruler.AxisBackgroundX, ruler.AxisBackgroundY, ruler.CornerBlock), 3)
}

func TestSchemeAndOverlayOrder(t *testing.T) {
	c, store := newController(t, 500, 500)
	c.SetScheme(colorutil.SchemeDark)
	bar := c.Ruler().Elements(ruler.AxisBackgroundX)[0].Object
	assert.Equal(t, colorutil.Black, bar.Fill)

	c.Wheel(WheelEvent{DeltaX: 30, DeltaY: 30})
	objs := store.Objects()
	lastGuide, firstBar := -1, len(objs)
	for i, o := range objs {
		switch o.Data.Role {
		case scene.RoleGuide:
			lastGuide = i
		case scene.RoleRuler:
			if i < firstBar {
				firstBar = i
			}
		}
	}
	assert.Less(t, lastGuide, firstBar)
}

func TestResizeRebuildsOverlay(t *testing.T) {
	c, _ := newController(t, 500, 500)
	c.Resize(1000, 200)

	bar := c.Ruler().Elements(ruler.AxisBackgroundX)[0].Object
	assert.Equal(t, 1000.0, bar.Width)
	assert.Len(t, c.Ruler().Elements(ruler.TickMarkX), 20)
	assert.Len(t, c.Ruler().Elements(ruler.TickMarkY), 4)
	assert.Equal(t, 200.0, c.Snap().Guide(snap.GuideLeft).Object.Height)
}

func TestDefaultTolerance(t *testing.T) {
	c := New(viewport.New(10, 10), scene.NewStore(), nil)
	assert.Equal(t, snap.DefaultTolerance, c.SnapTolerance())
	assert.True(t, c.RulerVisible())
	assert.Equal(t, colorutil.SchemeLight, c.Scheme())
}

func TestMissingViewportIsNoOp(t *testing.T) {
	store := scene.NewStore()
	c := New(nil, store, nil)
	ab := scene.NewArtboard("", 0, 0, 500, 500)

	assert.NotPanics(t, func() {
		c.Attach()
		c.SetArtboard(ab)
		assert.Equal(t, 0.0, c.ZoomIn())
		assert.Equal(t, 0.0, c.ZoomOut())
		assert.Equal(t, 0.0, c.ZoomFromCenter(2))
		c.ResetZoom()
		assert.NoError(t, c.ZoomToFit())
		assert.NoError(t, c.CenterArtboard())
		c.Wheel(WheelEvent{DeltaY: 10, Ctrl: true})
		c.Resize(100, 100)
		c.SetScheme(colorutil.SchemeDark)
		c.SetRulerVisible(false)
		c.SetRulerVisible(true)
		store.Add(scene.NewRect(0, 0, 10, 10, colorutil.Blue))
		c.Detach()
	})
	assert.Same(t, ab, c.Artboard())
}

func TestContentAddedAfterAttachStaysUnderOverlay(t *testing.T) {
	c, store := newController(t, 800, 600)
	rect := scene.NewRect(0, 0, 200, 200, colorutil.Blue)
	store.Add(rect)

	objs := store.Objects()
	top := objs[len(objs)-1]
	kind, ok := c.Ruler().KindOf(top)
	require.True(t, ok)
	assert.Equal(t, ruler.CornerBlock, kind)

	contentAt, firstGuide := store.IndexOf(rect), len(objs)
	for i, o := range objs {
		if o.Data.Role == scene.RoleGuide && i < firstGuide {
			firstGuide = i
		}
	}
	assert.Less(t, contentAt, firstGuide)

	hit := store.ObjectAt(geometry.NewPoint2D(100, 5), 0)
	require.NotNil(t, hit)
	assert.Equal(t, scene.RoleRuler, hit.Data.Role)
}

func TestSchemeChangeRecolorsDragLines(t *testing.T) {
	c, store := newController(t, 500, 500)
	bar := c.Ruler().Elements(ruler.AxisBackgroundY)[0].Object
	store.Emit(scene.EventPointerDown, scene.Event{Target: bar, Pointer: geometry.NewPoint2D(5, 80)})
	lines := c.Ruler().Elements(ruler.DragLineY)
	require.Len(t, lines, 1)

	c.SetScheme(colorutil.SchemeDark)
	stroke, _ := colorutil.RulerColors(colorutil.SchemeDark)
	assert.Equal(t, stroke, lines[0].Object.Stroke)
	require.NotNil(t, lines[0].Label)
	assert.Equal(t, stroke, lines[0].Label.Fill)
}

package canvas

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artboard-studio/internal/panzoom"
	"artboard-studio/internal/ruler"
	"artboard-studio/internal/scene"
	"artboard-studio/internal/viewport"
	"artboard-studio/pkg/colorutil"
)

func newTestCanvas(t *testing.T) (*DesignCanvas, *scene.Store) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)

	store := scene.NewStore()
	ctrl := panzoom.New(viewport.New(800, 600), store, nil)
	ctrl.Attach()
	dc := NewDesignCanvas(ctrl, store)
	dc.modifiers = func() fyne.KeyModifier { return 0 }
	dc.Resize(fyne.NewSize(800, 600))
	return dc, store
}

func press(x, y float32) *desktop.MouseEvent {
	return &desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	}
}

func drag(x, y, dx, dy float32) *fyne.DragEvent {
	return &fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Dragged:    fyne.NewDelta(dx, dy),
	}
}

func TestResizeUpdatesViewport(t *testing.T) {
	dc, _ := newTestCanvas(t)
	dc.Resize(fyne.NewSize(1024, 768))
	size := dc.Controller().Viewport().Size()
	assert.Equal(t, 1024.0, size.Width)
	assert.Equal(t, 768.0, size.Height)
}

func TestScrollZoomsWithModifier(t *testing.T) {
	dc, _ := newTestCanvas(t)
	vp := dc.Controller().Viewport()

	dc.modifiers = func() fyne.KeyModifier { return fyne.KeyModifierControl }
	dc.Scrolled(&fyne.ScrollEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(400, 300)},
		Scrolled:   fyne.NewDelta(0, 50),
	})
	assert.Greater(t, vp.Zoom(), 1.0, "wheel up zooms in")

	dc.modifiers = func() fyne.KeyModifier { return 0 }
	zoom := vp.Zoom()
	ty := vp.Pan().Y
	dc.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, -30)})
	assert.Equal(t, zoom, vp.Zoom())
	assert.InDelta(t, ty-30, vp.Pan().Y, 1e-9)
}

func TestDragSnapsObject(t *testing.T) {
	dc, store := newTestCanvas(t)
	a := scene.NewRect(100, 100, 50, 50, colorutil.Blue)
	b := scene.NewRect(300, 100, 50, 50, colorutil.Blue)
	store.Add(a, b)

	dc.MouseDown(press(325, 125))
	dc.Dragged(drag(176, 125, -149, 0))
	assert.Equal(t, 150.0, b.Left, "snapped to the right edge of a")
	assert.Equal(t, 100.0, b.Top)

	dc.DragEnd()
	for _, g := range dc.Controller().Snap().Guides() {
		assert.False(t, g.Active)
	}
}

func TestDragOnEmptyAreaPans(t *testing.T) {
	dc, _ := newTestCanvas(t)
	dc.MouseDown(press(600, 500))
	dc.Dragged(drag(610, 505, 10, 5))
	dc.DragEnd()
	pan := dc.Controller().Viewport().Pan()
	assert.Equal(t, 10.0, pan.X)
	assert.Equal(t, 5.0, pan.Y)
}

func TestRulerPressCreatesDraggableLine(t *testing.T) {
	dc, _ := newTestCanvas(t)
	r := dc.Controller().Ruler()

	dc.MouseDown(press(300, 10))
	lines := r.Elements(ruler.DragLineX)
	require.Len(t, lines, 1)
	assert.Equal(t, 300.0, lines[0].Value)

	dc.Dragged(drag(350, 200, 50, 190))
	assert.Equal(t, 350.0, lines[0].Object.Left)
	assert.Equal(t, 350.0, lines[0].Value)
	assert.Equal(t, "350", lines[0].Label.Text)
	dc.DragEnd()

	dc.MouseDown(press(600, 500))
	assert.Empty(t, r.Elements(ruler.DragLineX), "clicking empty canvas clears drag lines")
}

func TestRenderProducesFullImage(t *testing.T) {
	dc, _ := newTestCanvas(t)
	img := dc.draw(800, 600)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())
}

func TestPressOnArtboardActsLikeEmptyCanvas(t *testing.T) {
	dc, store := newTestCanvas(t)
	store.Add(scene.NewArtboard("", 100, 100, 400, 400))
	r := dc.Controller().Ruler()

	dc.MouseDown(press(300, 10))
	dc.DragEnd()
	require.Len(t, r.Elements(ruler.DragLineX), 1)

	dc.MouseDown(press(250, 300))
	assert.Empty(t, r.Elements(ruler.DragLineX))
	dc.Dragged(drag(260, 305, 10, 5))
	dc.DragEnd()
	pan := dc.Controller().Viewport().Pan()
	assert.Equal(t, 10.0, pan.X)
	assert.Equal(t, 5.0, pan.Y)
}

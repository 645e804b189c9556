// Package canvas provides the design canvas widget: a raster of the scene
// under the pan/zoom viewport that forwards wheel, mouse and resize input.
package canvas

import (
	"image"
	"log/slog"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"artboard-studio/internal/applog"
	"artboard-studio/internal/panzoom"
	"artboard-studio/internal/render"
	"artboard-studio/internal/ruler"
	"artboard-studio/internal/scene"
	"artboard-studio/pkg/colorutil"
	"artboard-studio/pkg/geometry"
)

// hitSlop is the pointer tolerance in screen pixels for thin objects.
const hitSlop = 3

// DesignCanvas displays the scene store through a panzoom controller.
type DesignCanvas struct {
	widget.BaseWidget

	ctrl    *panzoom.Controller
	store   *scene.Store
	painter *render.Painter
	raster  *fynecanvas.Raster
	log     *slog.Logger

	lastSize fyne.Size

	// Interaction state
	dragging   *scene.Object
	dragOffset geometry.Point2D
	panning    bool

	// Callbacks
	onChange  func()
	onPointer func(world geometry.Point2D)
	modifiers func() fyne.KeyModifier
}

var (
	_ fyne.Widget       = (*DesignCanvas)(nil)
	_ fyne.Scrollable   = (*DesignCanvas)(nil)
	_ fyne.Draggable    = (*DesignCanvas)(nil)
	_ desktop.Mouseable = (*DesignCanvas)(nil)
	_ desktop.Hoverable = (*DesignCanvas)(nil)
)

// NewDesignCanvas creates a canvas for the controller's store.
func NewDesignCanvas(ctrl *panzoom.Controller, store *scene.Store) *DesignCanvas {
	dc := &DesignCanvas{
		ctrl:      ctrl,
		store:     store,
		painter:   render.NewPainter(colorutil.CanvasBackground(ctrl.Scheme())),
		log:       applog.WithComponent("canvas"),
		modifiers: currentModifiers,
	}
	dc.raster = fynecanvas.NewRaster(dc.draw)
	dc.raster.ScaleMode = fynecanvas.ImageScalePixels
	dc.ExtendBaseWidget(dc)
	return dc
}

// currentModifiers asks the desktop driver which keys are held.
func currentModifiers() fyne.KeyModifier {
	app := fyne.CurrentApp()
	if app == nil {
		return 0
	}
	if d, ok := app.Driver().(desktop.Driver); ok {
		return d.CurrentKeyModifiers()
	}
	return 0
}

// OnChange sets a callback invoked after the view or an object changed.
func (dc *DesignCanvas) OnChange(callback func()) {
	dc.onChange = callback
}

// OnPointerMove sets a callback receiving the world position under the mouse.
func (dc *DesignCanvas) OnPointerMove(callback func(world geometry.Point2D)) {
	dc.onPointer = callback
}

// Controller returns the panzoom controller.
func (dc *DesignCanvas) Controller() *panzoom.Controller { return dc.ctrl }

func (dc *DesignCanvas) changed() {
	dc.Refresh()
	if dc.onChange != nil {
		dc.onChange()
	}
}

func toPoint(p fyne.Position) geometry.Point2D {
	return geometry.Point2D{X: float64(p.X), Y: float64(p.Y)}
}

func (dc *DesignCanvas) toWorld(p fyne.Position) geometry.Point2D {
	return dc.ctrl.Viewport().ScreenToWorld(toPoint(p))
}

// Scrolled zooms around the pointer with ctrl or cmd held and pans otherwise.
// Fyne reports wheel-up as positive, the opposite of a browser delta.
func (dc *DesignCanvas) Scrolled(ev *fyne.ScrollEvent) {
	mods := dc.modifiers()
	dc.ctrl.Wheel(panzoom.WheelEvent{
		DeltaX:   -float64(ev.Scrolled.DX),
		DeltaY:   -float64(ev.Scrolled.DY),
		Ctrl:     mods&fyne.KeyModifierControl != 0,
		Meta:     mods&fyne.KeyModifierSuper != 0,
		Position: toPoint(ev.Position),
	})
	dc.changed()
}

// MouseDown hit-tests the scene and notifies the store. A press on the ruler
// creates a drag line, which is then dragged with the pointer.
func (dc *DesignCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	world := dc.toWorld(ev.Position)
	slop := hitSlop / dc.ctrl.Viewport().Zoom()
	target := dc.store.ObjectAt(world, slop)

	before := len(dc.ctrl.Ruler().Elements(ruler.DragLineX, ruler.DragLineY))
	dc.store.Emit(scene.EventPointerDown, scene.Event{Target: target, Pointer: world})
	if lines := dc.ctrl.Ruler().Elements(ruler.DragLineX, ruler.DragLineY); len(lines) > before {
		target = lines[len(lines)-1].Object
	}

	switch {
	case target == nil, !target.Selectable && target.Data.Role == scene.RoleContent:
		// The artboard and other fixed content behave like empty canvas.
		dc.store.Emit(scene.EventSelectionCleared, scene.Event{Pointer: world})
		dc.panning = true
	case target.Selectable:
		dc.dragging = target
		dc.dragOffset = world.Sub(geometry.Point2D{X: target.Left, Y: target.Top})
	}
	dc.changed()
}

// MouseUp ends an object drag started without movement.
func (dc *DesignCanvas) MouseUp(*desktop.MouseEvent) {
	dc.DragEnd()
}

// Dragged moves the grabbed object, or pans when the press hit empty canvas.
func (dc *DesignCanvas) Dragged(ev *fyne.DragEvent) {
	if dc.dragging != nil {
		world := dc.toWorld(ev.Position)
		pos := world.Sub(dc.dragOffset)
		dc.dragging.SetPosition(pos.X, pos.Y)
		dc.store.Emit(scene.EventObjectMoving, scene.Event{Target: dc.dragging, Pointer: world})
		dc.changed()
		return
	}
	if dc.panning {
		dc.ctrl.Wheel(panzoom.WheelEvent{
			DeltaX: -float64(ev.Dragged.DX),
			DeltaY: -float64(ev.Dragged.DY),
		})
		dc.changed()
	}
}

// DragEnd finishes a move and lets the snap guides fade.
func (dc *DesignCanvas) DragEnd() {
	if dc.dragging != nil {
		obj := dc.dragging
		dc.dragging = nil
		dc.store.Emit(scene.EventObjectModified, scene.Event{Target: obj})
		dc.log.Debug("object moved",
			slog.String("id", obj.Data.ID),
			slog.Float64("left", obj.Left),
			slog.Float64("top", obj.Top))
		dc.changed()
	}
	dc.panning = false
}

func (dc *DesignCanvas) MouseIn(ev *desktop.MouseEvent) { dc.MouseMoved(ev) }

func (dc *DesignCanvas) MouseMoved(ev *desktop.MouseEvent) {
	if dc.onPointer != nil {
		dc.onPointer(dc.toWorld(ev.Position))
	}
}

func (dc *DesignCanvas) MouseOut() {}

// Resize passes the new size to the controller before laying out.
func (dc *DesignCanvas) Resize(size fyne.Size) {
	dc.BaseWidget.Resize(size)
	if size == dc.lastSize || size.Width <= 0 || size.Height <= 0 {
		return
	}
	dc.lastSize = size
	dc.ctrl.Resize(float64(size.Width), float64(size.Height))
	dc.changed()
}

// draw is the raster drawing function. w and h are in device pixels.
func (dc *DesignCanvas) draw(w, h int) image.Image {
	density := 1.0
	if width := dc.ctrl.Viewport().Size().Width; width > 0 {
		density = float64(w) / width
	}
	dc.painter.Background = colorutil.CanvasBackground(dc.ctrl.Scheme())
	return dc.painter.Render(dc.ctrl.Viewport(), dc.store.Objects(), w, h, density)
}

// CreateRenderer implements fyne.Widget.
func (dc *DesignCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &designCanvasRenderer{canvas: dc}
}

type designCanvasRenderer struct {
	canvas *DesignCanvas
}

func (r *designCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *designCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(100, 100)
}

func (r *designCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *designCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *designCanvasRenderer) Destroy() {}

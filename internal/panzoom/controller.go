// Package panzoom turns wheel, resize and zoom commands into viewport
// updates and keeps the ruler and snap guides in step with them.
package panzoom

import (
	"errors"
	"log/slog"
	"math"

	"artboard-studio/internal/applog"
	"artboard-studio/internal/ruler"
	"artboard-studio/internal/scene"
	"artboard-studio/internal/snap"
	"artboard-studio/internal/viewport"
	"artboard-studio/pkg/colorutil"
	"artboard-studio/pkg/geometry"
)

// ErrNoArtboard is returned by operations that need an active artboard.
var ErrNoArtboard = errors.New("no active artboard")

const (
	wheelZoomBase = 0.99
	zoomStep      = 0.1
	fitFraction   = 0.8
)

// Settings supplies the persisted values the controller consumes.
type Settings interface {
	SnapTolerance() float64
	RulerVisible() bool
	ColorScheme() colorutil.Scheme
}

// WheelEvent is a wheel or trackpad scroll over the canvas.
type WheelEvent struct {
	DeltaX, DeltaY float64
	Ctrl, Meta     bool
	// Position is the pointer location in screen pixels.
	Position geometry.Point2D
}

// Controller owns the viewport of one canvas.
type Controller struct {
	vp       *viewport.State
	store    *scene.Store
	ruler    *ruler.Renderer
	snap     *snap.Engine
	settings Settings
	log      *slog.Logger

	artboard     *scene.Object
	rulerVisible bool
	scheme       colorutil.Scheme

	subs   []scene.Subscription
	onZoom []func(zoom float64)
}

// New creates a controller for vp and the objects in store. settings may be
// nil, in which case the ruler is shown in the light scheme and snapping uses
// snap.DefaultTolerance.
func New(vp *viewport.State, store *scene.Store, settings Settings) *Controller {
	c := &Controller{
		vp:           vp,
		store:        store,
		ruler:        ruler.NewRenderer(store),
		snap:         snap.NewEngine(store),
		settings:     settings,
		log:          applog.WithComponent("panzoom"),
		rulerVisible: true,
	}
	if settings != nil {
		c.rulerVisible = settings.RulerVisible()
		c.scheme = settings.ColorScheme()
	}
	return c
}

// Viewport returns the controlled viewport.
func (c *Controller) Viewport() *viewport.State { return c.vp }

// Ruler returns the ruler renderer.
func (c *Controller) Ruler() *ruler.Renderer { return c.ruler }

// Snap returns the snap engine.
func (c *Controller) Snap() *snap.Engine { return c.snap }

// Artboard returns the active artboard, or nil.
func (c *Controller) Artboard() *scene.Object { return c.artboard }

// RulerVisible reports whether the ruler is shown.
func (c *Controller) RulerVisible() bool { return c.rulerVisible }

// Scheme returns the color scheme the ruler is drawn with.
func (c *Controller) Scheme() colorutil.Scheme { return c.scheme }

// Attached reports whether the controller is listening to the store.
func (c *Controller) Attached() bool { return len(c.subs) > 0 }

// Attach subscribes to the store and draws the ruler and guides. Calling it
// twice does not register duplicate listeners.
func (c *Controller) Attach() {
	if c.store == nil || c.Attached() {
		return
	}
	c.subs = append(c.subs,
		c.store.On(scene.EventPointerDown, c.handlePointerDown),
		c.store.On(scene.EventObjectMoving, c.handleObjectMoving),
		c.store.On(scene.EventObjectModified, c.handleObjectModified),
		c.store.On(scene.EventSelectionCleared, c.handleSelectionCleared),
		c.store.On(scene.EventObjectAdded, c.handleObjectAdded),
	)
	c.snap.CreateGuides(c.vp)
	if c.rulerVisible {
		c.ruler.Initialize(c.vp, c.scheme)
	}
	c.log.Debug("attached", slog.Int("listeners", len(c.subs)))
}

// Detach removes every listener Attach registered along with the ruler and
// guide objects.
func (c *Controller) Detach() {
	if c.store == nil {
		return
	}
	for _, sub := range c.subs {
		c.store.Off(sub)
	}
	c.subs = nil
	c.ruler.Remove()
	c.snap.Remove()
	c.log.Debug("detached")
}

func (c *Controller) handlePointerDown(ev scene.Event) {
	if !c.rulerVisible {
		return
	}
	c.ruler.HandlePointerDown(c.vp, ev.Target, ev.Pointer)
}

func (c *Controller) handleObjectMoving(ev scene.Event) {
	if ev.Target == nil {
		return
	}
	if c.ruler.UpdateDragLabel(c.vp, ev.Target) {
		return
	}
	if !scene.IsSnappable(ev.Target) {
		return
	}
	c.snap.Snap(ev.Target, c.store.Objects(), c.SnapTolerance())
}

func (c *Controller) handleObjectModified(scene.Event) {
	c.snap.Clear()
}

func (c *Controller) handleSelectionCleared(scene.Event) {
	c.ruler.RemoveDragLines()
}

// handleObjectAdded keeps guides and the ruler above content added after
// Attach.
func (c *Controller) handleObjectAdded(ev scene.Event) {
	if ev.Target == nil || ev.Target.Data.Role != scene.RoleContent {
		return
	}
	c.snap.Restack()
	c.ruler.Restack()
}

// SnapTolerance returns the current snap distance in world units.
func (c *Controller) SnapTolerance() float64 {
	if c.settings == nil {
		return snap.DefaultTolerance
	}
	return c.settings.SnapTolerance()
}

// OnZoomChange registers fn to be called with the new zoom after every zoom
// operation.
func (c *Controller) OnZoomChange(fn func(zoom float64)) {
	if fn != nil {
		c.onZoom = append(c.onZoom, fn)
	}
}

func (c *Controller) notifyZoom() {
	z := c.vp.Zoom()
	for _, fn := range c.onZoom {
		fn(z)
	}
}

// refresh moves the overlay after a pan or zoom. Guides are recreated first
// so the ruler restacks above them.
func (c *Controller) refresh() {
	c.snap.CreateGuides(c.vp)
	if !c.rulerVisible {
		return
	}
	c.ruler.RepositionBackgrounds(c.vp)
	c.ruler.AdjustDragLines(c.vp)
	c.ruler.RegenerateTicks(c.vp)
}

// Wheel zooms around the pointer when ctrl or meta is held, and pans by the
// raw deltas otherwise.
func (c *Controller) Wheel(ev WheelEvent) {
	if c.vp == nil {
		return
	}
	if ev.Ctrl || ev.Meta {
		zoom := c.vp.Zoom() * math.Pow(wheelZoomBase, ev.DeltaY)
		zoom = c.vp.Range().Clamp(zoom)
		c.vp.ZoomToPoint(ev.Position, zoom)
		c.refresh()
		c.notifyZoom()
		return
	}
	c.vp.PanBy(ev.DeltaX, ev.DeltaY)
	c.refresh()
}

// Resize updates the canvas pixel size and rebuilds the overlay.
func (c *Controller) Resize(width, height float64) {
	if c.vp == nil {
		return
	}
	c.vp.SetSize(width, height)
	c.snap.CreateGuides(c.vp)
	if c.rulerVisible {
		c.ruler.Initialize(c.vp, c.scheme)
	}
}

// ZoomFromCenter sets zoom, clamped to the allowed range, keeping the canvas
// centre fixed. It returns the zoom applied.
func (c *Controller) ZoomFromCenter(zoom float64) float64 {
	if c.vp == nil {
		return 0
	}
	zoom = c.vp.Range().Clamp(zoom)
	c.vp.ZoomToPoint(c.vp.Center(), zoom)
	c.refresh()
	c.notifyZoom()
	return zoom
}

// ZoomIn raises zoom by one step.
func (c *Controller) ZoomIn() float64 {
	if c.vp == nil {
		return 0
	}
	return c.ZoomFromCenter(c.vp.Zoom() + zoomStep)
}

// ZoomOut lowers zoom by one step.
func (c *Controller) ZoomOut() float64 {
	if c.vp == nil {
		return 0
	}
	return c.ZoomFromCenter(c.vp.Zoom() - zoomStep)
}

// ResetZoom returns to zoom 1, centred on the artboard when there is one.
func (c *Controller) ResetZoom() {
	if c.vp == nil {
		return
	}
	c.ZoomFromCenter(1)
	if c.artboard != nil {
		_ = c.CenterArtboard()
	}
}

// ZoomToFit zooms so the artboard fills 80% of the canvas and centres it.
// Without a viewport it does nothing.
func (c *Controller) ZoomToFit() error {
	if c.vp == nil {
		return nil
	}
	if c.artboard == nil {
		return ErrNoArtboard
	}
	ab := c.artboard.Bounds()
	if ab.Width <= 0 || ab.Height <= 0 {
		return ErrNoArtboard
	}
	size := c.vp.Size()
	zoom := math.Min(size.Width*fitFraction/ab.Width, size.Height*fitFraction/ab.Height)
	applied := c.ZoomFromCenter(zoom)
	c.log.Debug("zoom to fit",
		slog.Float64("requested", zoom),
		slog.Float64("applied", applied))
	return c.CenterArtboard()
}

// CenterArtboard pans so the artboard centre sits at the canvas centre
// without changing zoom.
func (c *Controller) CenterArtboard() error {
	if c.vp == nil {
		return nil
	}
	if c.artboard == nil {
		return ErrNoArtboard
	}
	ab := c.artboard.Bounds()
	size := c.vp.Size()
	zoom := c.vp.Zoom()
	tx := (size.Width/zoom/2 - ab.Left() - ab.Width/2) * zoom
	ty := (size.Height/zoom/2 - ab.Top() - ab.Height/2) * zoom
	c.vp.SetViewport(zoom, tx, ty)
	c.refresh()
	return nil
}

// SetArtboard makes obj the active artboard and applies its zoom range.
// A nil artboard restores the default range.
func (c *Controller) SetArtboard(obj *scene.Object) {
	c.artboard = obj
	if c.vp == nil {
		return
	}
	if obj == nil {
		c.vp.SetRange(viewport.Range{})
		return
	}
	b := obj.Bounds()
	c.vp.SetRange(viewport.AllowedRange(b.Width, b.Height))
}

// SetRulerVisible shows or hides the ruler.
func (c *Controller) SetRulerVisible(visible bool) {
	c.rulerVisible = visible
	if !c.Attached() {
		return
	}
	if visible {
		c.ruler.Initialize(c.vp, c.scheme)
		return
	}
	c.ruler.Remove()
}

// SetScheme redraws the ruler in the given color scheme.
func (c *Controller) SetScheme(s colorutil.Scheme) {
	c.scheme = s
	if c.Attached() && c.rulerVisible {
		c.ruler.Initialize(c.vp, s)
	}
}

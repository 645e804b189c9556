package ruler

import (
	"log/slog"
	"math"

	"artboard-studio/internal/applog"
	"artboard-studio/internal/scene"
	"artboard-studio/internal/viewport"
	"artboard-studio/pkg/colorutil"
	"artboard-studio/pkg/geometry"
)

// Screen-space dimensions. Every element divides these by zoom so the
// ruler looks the same at any zoom level.
const (
	Thickness        = 20.0
	tickInset        = 16.0
	tickLength       = 5.0
	tickStroke       = 2.0
	backgroundStroke = 1.0
	dragStroke       = 2.0
	labelPadding     = 2.0
	dragLabelGap     = 4.0

	LabelFontSize = 10.0

	// maxTicksPerAxis bounds one regeneration even for a viewport far
	// larger than the tick table was designed for.
	maxTicksPerAxis = 4096
)

// Renderer owns the ruler elements it adds to a scene store.
type Renderer struct {
	store    *scene.Store
	measurer *LabelMeasurer
	scheme   colorutil.Scheme

	elements map[*scene.Object]*Element
	xAxis    *Element
	yAxis    *Element
	block    *Element
}

// NewRenderer creates a renderer that adds its elements to store.
func NewRenderer(store *scene.Store) *Renderer {
	return &Renderer{
		store:    store,
		measurer: NewLabelMeasurer(LabelFontSize),
		elements: make(map[*scene.Object]*Element),
	}
}

func (r *Renderer) ready(vp *viewport.State) bool {
	return r != nil && r.store != nil && vp != nil && vp.Zoom() > 0
}

// Scheme returns the color scheme of the last background render.
func (r *Renderer) Scheme() colorutil.Scheme {
	if r == nil {
		return colorutil.SchemeLight
	}
	return r.scheme
}

// KindOf reports the ruler kind of obj, if the renderer created it.
func (r *Renderer) KindOf(obj *scene.Object) (Kind, bool) {
	if r == nil || obj == nil {
		return 0, false
	}
	el, ok := r.elements[obj]
	if !ok {
		return 0, false
	}
	return el.Kind, true
}

// Element returns the element wrapping obj, or nil.
func (r *Renderer) Element(obj *scene.Object) *Element {
	if r == nil {
		return nil
	}
	return r.elements[obj]
}

// Elements returns the live elements of the given kinds in stacking order.
// No kinds means all.
func (r *Renderer) Elements(kinds ...Kind) []*Element {
	if r == nil || r.store == nil {
		return nil
	}
	want := func(k Kind) bool {
		if len(kinds) == 0 {
			return true
		}
		for _, w := range kinds {
			if w == k {
				return true
			}
		}
		return false
	}
	var out []*Element
	for _, o := range r.store.Objects() {
		if el, ok := r.elements[o]; ok && want(el.Kind) {
			out = append(out, el)
		}
	}
	return out
}

// Initialize fully (re)builds the ruler: backgrounds are recreated with the
// scheme colors, repositioned, drag lines are adjusted and ticks regenerated.
func (r *Renderer) Initialize(vp *viewport.State, scheme colorutil.Scheme) {
	if !r.ready(vp) {
		return
	}
	r.RenderBackgrounds(vp, scheme)
	r.RepositionBackgrounds(vp)
	r.AdjustDragLines(vp)
	r.RegenerateTicks(vp)
	applog.WithComponent("ruler").Debug("initialized",
		slog.String("scheme", scheme.String()),
		slog.Float64("zoom", vp.Zoom()))
}

// RenderBackgrounds replaces the two axis bars and the corner block.
func (r *Renderer) RenderBackgrounds(vp *viewport.State, scheme colorutil.Scheme) {
	if !r.ready(vp) {
		return
	}
	r.scheme = scheme
	for _, el := range []*Element{r.xAxis, r.yAxis, r.block} {
		if el != nil {
			r.remove(el.Object)
		}
	}

	r.xAxis = r.newBackground(AxisBackgroundX)
	r.yAxis = r.newBackground(AxisBackgroundY)
	r.block = r.newBackground(CornerBlock)
	r.store.Add(r.xAxis.Object, r.yAxis.Object, r.block.Object)
	r.RepositionBackgrounds(vp)
}

func (r *Renderer) newBackground(kind Kind) *Element {
	stroke, fill := colorutil.RulerColors(r.scheme)
	obj := scene.NewRect(0, 0, 0, 0, fill)
	obj.Stroke = stroke
	return r.track(kind, obj)
}

// track marks obj as a ruler element and records it.
func (r *Renderer) track(kind Kind, obj *scene.Object) *Element {
	obj.Data.Role = scene.RoleRuler
	obj.Data.IgnoreSnapping = true
	obj.Selectable = false
	el := &Element{Kind: kind, Object: obj}
	r.elements[obj] = el
	return el
}

func (r *Renderer) remove(objs ...*scene.Object) {
	for _, o := range objs {
		delete(r.elements, o)
	}
	r.store.Remove(objs...)
}

// RepositionBackgrounds moves the axis bars and the corner block to the
// current visible edges.
func (r *Renderer) RepositionBackgrounds(vp *viewport.State) {
	if !r.ready(vp) {
		return
	}
	zoom := vp.Zoom()
	tl := vp.VisibleTopLeft()
	size := vp.Size()

	if r.xAxis != nil {
		o := r.xAxis.Object
		o.Left, o.Top = tl.X, tl.Y
		o.Width, o.Height = size.Width/zoom, Thickness/zoom
		o.StrokeWidth = backgroundStroke / zoom
	}
	if r.yAxis != nil {
		o := r.yAxis.Object
		o.Left, o.Top = tl.X, tl.Y
		o.Width, o.Height = Thickness/zoom, size.Height/zoom
		o.StrokeWidth = backgroundStroke / zoom
	}
	if r.block != nil {
		o := r.block.Object
		o.Left, o.Top = tl.X, tl.Y
		o.Width, o.Height = Thickness/zoom, Thickness/zoom
		o.StrokeWidth = backgroundStroke / zoom
	}
}

// ClearTicks removes every tick mark and label. Safe when none exist.
func (r *Renderer) ClearTicks() int {
	if r == nil || r.store == nil {
		return 0
	}
	n := r.store.RemoveWhere(func(o *scene.Object) bool {
		el, ok := r.elements[o]
		return ok && el.Kind.IsTick()
	})
	for o, el := range r.elements {
		if el.Kind.IsTick() {
			delete(r.elements, o)
		}
	}
	return n
}

// RegenerateTicks sweeps the existing ticks and emits a mark and label per
// interval step on both axes. It returns the number of ticks per axis.
func (r *Renderer) RegenerateTicks(vp *viewport.State) (xTicks, yTicks int) {
	if !r.ready(vp) {
		return 0, 0
	}
	r.ClearTicks()

	zoom := vp.Zoom()
	interval := viewport.TickInterval(zoom)
	origin := vp.VisibleTopLeft()
	extent := vp.VisibleExtent()

	var objs []*scene.Object
	for _, v := range TickPositions(origin.X, extent.X, interval) {
		mark, label := r.tickX(v, origin, zoom)
		objs = append(objs, mark.Object, label.Object)
		xTicks++
	}
	for _, v := range TickPositions(origin.Y, extent.Y, interval) {
		mark, label := r.tickY(v, origin, zoom)
		objs = append(objs, mark.Object, label.Object)
		yTicks++
	}
	r.store.Add(objs...)
	r.Restack()

	applog.WithComponent("ruler").Debug("ticks regenerated",
		slog.Float64("interval", interval),
		slog.Int("x", xTicks),
		slog.Int("y", yTicks))
	return xTicks, yTicks
}

// TickPositions returns the tick coordinates from the last multiple of
// interval at or before start, up to (not including) end.
func TickPositions(start, end, interval float64) []float64 {
	if interval <= 0 || math.IsNaN(start) || math.IsNaN(end) || math.IsInf(start, 0) || math.IsInf(end, 0) {
		return nil
	}
	first := math.Floor(start/interval) * interval
	var out []float64
	for i := 0; i < maxTicksPerAxis; i++ {
		v := first + float64(i)*interval
		if v >= end {
			break
		}
		out = append(out, v)
	}
	return out
}

func (r *Renderer) tickX(v float64, origin geometry.Point2D, zoom float64) (*Element, *Element) {
	stroke, _ := colorutil.RulerColors(r.scheme)
	top := origin.Y + tickInset/zoom
	mark := scene.NewLine(v, top, v, top+tickLength/zoom, stroke, tickStroke/zoom)
	markEl := r.track(TickMarkX, mark)
	markEl.Value = v

	text := FormatValue(v)
	label := scene.NewText(v-r.measurer.Offset(v)/zoom, origin.Y+labelPadding/zoom, text, LabelFontSize/zoom, stroke)
	label.Width = r.measurer.Width(text) / zoom
	labelEl := r.track(TickLabelX, label)
	labelEl.Value = v
	return markEl, labelEl
}

func (r *Renderer) tickY(v float64, origin geometry.Point2D, zoom float64) (*Element, *Element) {
	stroke, _ := colorutil.RulerColors(r.scheme)
	left := origin.X + tickInset/zoom
	mark := scene.NewLine(left, v, left+tickLength/zoom, v, stroke, tickStroke/zoom)
	markEl := r.track(TickMarkY, mark)
	markEl.Value = v

	// Rotated 270 degrees the text reads upwards from (Left, Top), so the
	// anchor sits below the tick by the offset.
	text := FormatValue(v)
	label := scene.NewText(origin.X+labelPadding/zoom, v+r.measurer.Offset(v)/zoom, text, LabelFontSize/zoom, stroke)
	label.Width = r.measurer.Width(text) / zoom
	label.Angle = 270
	labelEl := r.track(TickLabelY, label)
	labelEl.Value = v
	return markEl, labelEl
}

// Restack lifts ruler elements above the scene: axis bars, then ticks,
// then drag lines and labels, with the corner block on top.
func (r *Renderer) Restack() {
	if r == nil || r.store == nil {
		return
	}
	var bars, ticks, drags []*scene.Object
	for _, o := range r.store.Objects() {
		el, ok := r.elements[o]
		if !ok || el == r.block {
			continue
		}
		switch {
		case el.Kind.IsBackground():
			bars = append(bars, o)
		case el.Kind.IsTick():
			ticks = append(ticks, o)
		case el.Kind.IsDrag():
			drags = append(drags, o)
		}
	}
	for _, group := range [][]*scene.Object{bars, ticks, drags} {
		for _, o := range group {
			r.store.BringToFront(o)
		}
	}
	if r.block != nil {
		r.store.BringToFront(r.block.Object)
	}
}

// Remove takes every ruler element out of the store, e.g. when the ruler is
// hidden.
func (r *Renderer) Remove() {
	if r == nil || r.store == nil {
		return
	}
	objs := make([]*scene.Object, 0, len(r.elements))
	for o := range r.elements {
		objs = append(objs, o)
	}
	r.remove(objs...)
	r.xAxis, r.yAxis, r.block = nil, nil, nil
}

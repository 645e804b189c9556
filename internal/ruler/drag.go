package ruler

import (
	"log/slog"

	"artboard-studio/internal/applog"
	"artboard-studio/internal/scene"
	"artboard-studio/internal/viewport"
	"artboard-studio/pkg/colorutil"
	"artboard-studio/pkg/geometry"
)

// HandlePointerDown creates a drag line when target is part of an axis bar.
// A press on the X bar creates a vertical line at the pointer x; a press on
// the Y bar a horizontal line at the pointer y. Returns nil otherwise.
func (r *Renderer) HandlePointerDown(vp *viewport.State, target *scene.Object, pointer geometry.Point2D) *Element {
	if !r.ready(vp) {
		return nil
	}
	kind, ok := r.KindOf(target)
	if !ok {
		return nil
	}

	zoom := vp.Zoom()
	tl := vp.VisibleTopLeft()
	size := vp.Size()
	stroke, _ := colorutil.RulerColors(r.scheme)

	var line *Element
	switch kind.Axis() {
	case AxisX:
		top := tl.Y + Thickness/zoom
		obj := scene.NewLine(pointer.X, top, pointer.X, top+size.Height/zoom, stroke, dragStroke/zoom)
		obj.LockMovementY = true
		line = r.track(DragLineX, obj)
		line.Value = pointer.X
	case AxisY:
		left := tl.X + Thickness/zoom
		obj := scene.NewLine(left, pointer.Y, left+size.Width/zoom, pointer.Y, stroke, dragStroke/zoom)
		obj.LockMovementX = true
		line = r.track(DragLineY, obj)
		line.Value = pointer.Y
	case AxisNone:
		return nil
	}
	line.Object.Selectable = true

	label := scene.NewText(0, 0, FormatValue(line.Value), LabelFontSize/zoom, stroke)
	label.Evented = false
	r.track(DragLabel, label)
	line.Label = label
	r.placeDragLabel(line, tl, zoom)

	r.store.Add(line.Object, label)
	r.Restack()
	applog.WithComponent("ruler").Debug("drag line created",
		slog.String("kind", line.Kind.String()),
		slog.Float64("value", line.Value))
	return line
}

func (r *Renderer) placeDragLabel(line *Element, tl geometry.Point2D, zoom float64) {
	if line.Label == nil {
		return
	}
	text := FormatValue(line.Value)
	l := line.Label
	l.Text = text
	l.FontSize = LabelFontSize / zoom
	l.Width = r.measurer.Width(text) / zoom
	l.Height = LabelFontSize / zoom
	switch line.Kind {
	case DragLineX:
		l.Left = line.Object.Left + dragLabelGap/zoom
		l.Top = tl.Y + (Thickness+dragLabelGap)/zoom
	case DragLineY:
		l.Left = tl.X + (Thickness+dragLabelGap)/zoom
		l.Top = line.Object.Top + dragLabelGap/zoom
	}
}

// UpdateDragLabel refreshes the label of a drag line that has moved.
// It reports whether obj is a drag line.
func (r *Renderer) UpdateDragLabel(vp *viewport.State, obj *scene.Object) bool {
	if !r.ready(vp) {
		return false
	}
	el := r.elements[obj]
	if el == nil || (el.Kind != DragLineX && el.Kind != DragLineY) {
		return false
	}
	if el.Kind == DragLineX {
		el.Value = obj.Left
	} else {
		el.Value = obj.Top
	}
	r.placeDragLabel(el, vp.VisibleTopLeft(), vp.Zoom())
	return true
}

// AdjustDragLines stretches existing drag lines across the visible area,
// keeps their stroke constant on screen and recolors them and their labels
// in the current scheme.
func (r *Renderer) AdjustDragLines(vp *viewport.State) {
	if !r.ready(vp) {
		return
	}
	zoom := vp.Zoom()
	tl := vp.VisibleTopLeft()
	size := vp.Size()
	stroke, _ := colorutil.RulerColors(r.scheme)
	for _, el := range r.elements {
		o := el.Object
		switch el.Kind {
		case DragLineX:
			o.Top = tl.Y + Thickness/zoom
			o.Width = 0
			o.Height = size.Height / zoom
			o.StrokeWidth = dragStroke / zoom
		case DragLineY:
			o.Left = tl.X + Thickness/zoom
			o.Width = size.Width / zoom
			o.Height = 0
			o.StrokeWidth = dragStroke / zoom
		default:
			continue
		}
		o.Stroke = stroke
		if el.Label != nil {
			el.Label.Fill = stroke
		}
		r.placeDragLabel(el, tl, zoom)
	}
}

// RemoveDragLines deletes every drag line and its label.
func (r *Renderer) RemoveDragLines() int {
	if r == nil || r.store == nil {
		return 0
	}
	var objs []*scene.Object
	for o, el := range r.elements {
		if el.Kind.IsDrag() {
			objs = append(objs, o)
		}
	}
	r.remove(objs...)
	return len(objs)
}

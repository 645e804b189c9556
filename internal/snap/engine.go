package snap

import (
	"log/slog"

	"artboard-studio/internal/applog"
	"artboard-studio/internal/scene"
	"artboard-studio/internal/viewport"
	"artboard-studio/pkg/colorutil"
	"artboard-studio/pkg/geometry"
)

// DefaultTolerance is the snap distance in world units when no setting is
// stored.
const DefaultTolerance = 2.0

const guideStroke = 1.0

// Guide is one guide line in the scene.
type Guide struct {
	Name     GuideName
	Active   bool
	Position float64
	Object   *scene.Object
}

// Engine snaps moving objects and keeps the six guide lines in a store.
type Engine struct {
	store  *scene.Store
	guides [guideCount]*Guide
}

// NewEngine creates an engine whose guides live in store. Guides are not
// created until CreateGuides is called.
func NewEngine(store *scene.Store) *Engine {
	return &Engine{store: store}
}

// CreateGuides replaces the guide lines with fresh ones spanning the visible
// rectangle. Call it whenever zoom or scroll changes.
func (e *Engine) CreateGuides(vp *viewport.State) {
	if e == nil || e.store == nil || vp == nil || vp.Zoom() <= 0 {
		return
	}
	e.store.RemoveWhere(func(o *scene.Object) bool {
		return o.Data.Role == scene.RoleGuide
	})

	vis := vp.VisibleRect()
	width := guideStroke / vp.Zoom()
	objs := make([]*scene.Object, 0, guideCount)
	for _, name := range GuideNames {
		var obj *scene.Object
		if name.Vertical() {
			obj = scene.NewLine(vis.Left(), vis.Top(), vis.Left(), vis.Bottom(), colorutil.Blue, width)
		} else {
			obj = scene.NewLine(vis.Left(), vis.Top(), vis.Right(), vis.Top(), colorutil.Blue, width)
		}
		obj.Data.Role = scene.RoleGuide
		obj.Data.IgnoreSnapping = true
		obj.Opacity = 0
		obj.Evented = false
		obj.Selectable = false
		e.guides[name] = &Guide{Name: name, Object: obj}
		objs = append(objs, obj)
	}
	e.store.Add(objs...)
	applog.WithComponent("snap").Debug("guides created",
		slog.Float64("zoom", vp.Zoom()))
}

// Guide returns the named guide, or nil before CreateGuides.
func (e *Engine) Guide(name GuideName) *Guide {
	if e == nil || name < 0 || int(name) >= guideCount {
		return nil
	}
	return e.guides[name]
}

// Guides returns the current guides in GuideNames order, skipping any not
// yet created.
func (e *Engine) Guides() []*Guide {
	if e == nil {
		return nil
	}
	out := make([]*Guide, 0, guideCount)
	for _, g := range e.guides {
		if g != nil {
			out = append(out, g)
		}
	}
	return out
}

// Snap moves target so it aligns with the candidates and updates the guides.
// The target itself and objects excluded from snapping are skipped. Only
// Left and Top change.
func (e *Engine) Snap(target *scene.Object, candidates []*scene.Object, tolerance float64) Result {
	if target == nil {
		return Result{}
	}
	rects := make([]geometry.Rect, 0, len(candidates))
	for _, c := range candidates {
		if c == target || !scene.IsSnappable(c) {
			continue
		}
		rects = append(rects, c.Bounds())
	}

	res := Compute(target.Bounds(), rects, tolerance)
	if res.Dx != 0 || res.Dy != 0 {
		target.SetPosition(target.Left+res.Dx, target.Top+res.Dy)
	}
	e.apply(res)
	return res
}

func (e *Engine) apply(res Result) {
	if e == nil {
		return
	}
	for _, g := range e.guides {
		if g == nil {
			continue
		}
		st := res.Guides[g.Name]
		g.Active = st.Active
		g.Position = st.Position
		if st.Active {
			g.Object.Opacity = 1
		} else {
			g.Object.Opacity = 0
		}
		if g.Name.Vertical() {
			g.Object.Left = st.Position
		} else {
			g.Object.Top = st.Position
		}
	}
}

// Clear hides every guide.
func (e *Engine) Clear() {
	if e == nil {
		return
	}
	for _, g := range e.guides {
		if g != nil {
			g.Active = false
			g.Object.Opacity = 0
		}
	}
}

// Restack brings the guide lines to the front of the store.
func (e *Engine) Restack() {
	if e == nil || e.store == nil {
		return
	}
	for _, g := range e.guides {
		if g != nil {
			e.store.BringToFront(g.Object)
		}
	}
}

// Remove takes the guide lines out of the store.
func (e *Engine) Remove() {
	if e == nil || e.store == nil {
		return
	}
	objs := make([]*scene.Object, 0, guideCount)
	for i, g := range e.guides {
		if g != nil {
			objs = append(objs, g.Object)
			e.guides[i] = nil
		}
	}
	e.store.Remove(objs...)
}

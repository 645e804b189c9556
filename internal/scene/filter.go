package scene

// IsSnappable reports whether obj may act as a snap target.
func IsSnappable(obj *Object) bool {
	return obj != nil && !obj.Data.IgnoreSnapping && obj.Data.Role == RoleContent
}

// IsOverlay reports whether obj belongs to the ruler or the snap guides.
func IsOverlay(obj *Object) bool {
	return obj != nil && obj.Data.Role != RoleContent
}

// FilterSnappingExcludes drops guides and anything flagged IgnoreSnapping.
func FilterSnappingExcludes(objs []*Object) []*Object {
	return filter(objs, IsSnappable)
}

// FilterRulerExcludes drops ruler elements.
func FilterRulerExcludes(objs []*Object) []*Object {
	return filter(objs, func(o *Object) bool {
		return o != nil && o.Data.Role != RoleRuler
	})
}

// FilterSaveExcludes keeps only what belongs in a saved artboard.
func FilterSaveExcludes(objs []*Object) []*Object {
	return filter(objs, func(o *Object) bool {
		return IsSnappable(o) && o.Data.Role != RoleRuler
	})
}

func filter(objs []*Object, keep func(*Object) bool) []*Object {
	out := make([]*Object, 0, len(objs))
	for _, o := range objs {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

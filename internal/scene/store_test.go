package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artboard-studio/pkg/colorutil"
	"artboard-studio/pkg/geometry"
)

func ids(objs []*Object) []string {
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = o.Data.ID
	}
	return out
}

func named(id string) *Object {
	o := NewRect(0, 0, 10, 10, colorutil.Blue)
	o.Data.ID = id
	return o
}

func TestAddRemoveOrder(t *testing.T) {
	s := NewStore()
	a, b, c := named("a"), named("b"), named("c")
	s.Add(a, b, c)
	assert.Equal(t, []string{"a", "b", "c"}, ids(s.Objects()))

	s.Remove(b, named("unknown"))
	assert.Equal(t, []string{"a", "c"}, ids(s.Objects()))
	assert.Equal(t, -1, s.IndexOf(b))
	assert.Same(t, c, s.Find("c"))
	assert.Nil(t, s.Find("b"))
}

func TestRestack(t *testing.T) {
	s := NewStore()
	a, b, c, d := named("a"), named("b"), named("c"), named("d")
	s.Add(a, b, c, d)

	s.BringToFront(a)
	assert.Equal(t, []string{"b", "c", "d", "a"}, ids(s.Objects()))
	s.SendToBack(d)
	assert.Equal(t, []string{"d", "b", "c", "a"}, ids(s.Objects()))
	s.MoveTo(a, 1)
	assert.Equal(t, []string{"d", "a", "b", "c"}, ids(s.Objects()))
	s.MoveTo(b, 99)
	assert.Equal(t, []string{"d", "a", "c", "b"}, ids(s.Objects()))
}

func TestRemoveWhere(t *testing.T) {
	s := NewStore()
	s.Add(named("keep1"), named("drop1"), named("keep2"), named("drop2"))

	n := s.RemoveWhere(func(o *Object) bool { return o.Data.ID[:4] == "drop" })
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"keep1", "keep2"}, ids(s.Objects()))
	assert.Equal(t, 0, s.RemoveWhere(func(*Object) bool { return false }))
}

func TestListenersAreSymmetric(t *testing.T) {
	s := NewStore()
	var calls []string
	sub1 := s.On(EventObjectMoving, func(ev Event) { calls = append(calls, "one:"+ev.Target.Data.ID) })
	sub2 := s.On(EventObjectMoving, func(ev Event) { calls = append(calls, "two:"+ev.Target.Data.ID) })
	require.Equal(t, 2, s.ListenerCount(EventObjectMoving))

	s.Emit(EventObjectMoving, Event{Target: named("x")})
	assert.Equal(t, []string{"one:x", "two:x"}, calls)

	s.Off(sub1)
	s.Off(sub1)
	s.Emit(EventObjectMoving, Event{Target: named("y")})
	assert.Equal(t, []string{"one:x", "two:x", "two:y"}, calls)

	s.Off(sub2)
	assert.Equal(t, 0, s.ListenerCount(EventObjectMoving))
}

func TestObjectAtTopmost(t *testing.T) {
	s := NewStore()
	bottom := NewRect(0, 0, 100, 100, colorutil.White)
	top := NewRect(50, 50, 100, 100, colorutil.Blue)
	hidden := NewRect(0, 0, 200, 200, colorutil.Black)
	hidden.Evented = false
	s.Add(bottom, top, hidden)

	assert.Same(t, top, s.ObjectAt(geometry.NewPoint2D(60, 60), 0))
	assert.Same(t, bottom, s.ObjectAt(geometry.NewPoint2D(10, 10), 0))
	assert.Nil(t, s.ObjectAt(geometry.NewPoint2D(300, 300), 0))
}

func TestObjectContainsRotatedAndLines(t *testing.T) {
	r := NewRect(0, 0, 10, 4, colorutil.Blue)
	r.Angle = 90
	assert.True(t, r.Contains(geometry.NewPoint2D(-2, 5), 0))
	assert.False(t, r.Contains(geometry.NewPoint2D(5, 2), 0))

	l := NewLine(0, 0, 0, 100, colorutil.Black, 2)
	assert.True(t, l.Contains(geometry.NewPoint2D(0.5, 50), 0))
	assert.True(t, l.Contains(geometry.NewPoint2D(3, 50), 4))
	assert.False(t, l.Contains(geometry.NewPoint2D(3, 50), 0))
}

func TestScaledDimensionsAndBounds(t *testing.T) {
	o := NewRect(10, 20, 100, 50, colorutil.Blue)
	o.ScaleX, o.ScaleY = 2, 0.5
	assert.Equal(t, 200.0, o.ScaledWidth())
	assert.Equal(t, 25.0, o.ScaledHeight())

	l := NewLine(10, 10, 0, 0, colorutil.Black, 1)
	assert.Equal(t, geometry.NewRect(0, 0, 10, 10), l.Bounds())
}

func TestSetPositionHonoursLocks(t *testing.T) {
	o := NewLine(0, 0, 0, 100, colorutil.Black, 1)
	o.LockMovementY = true
	o.SetPosition(40, 70)
	assert.Equal(t, 40.0, o.Left)
	assert.Equal(t, 0.0, o.Top)
}

func TestFilters(t *testing.T) {
	content := named("content")
	ignored := named("ignored")
	ignored.Data.IgnoreSnapping = true
	ruler := named("ruler")
	ruler.Data.Role = RoleRuler
	ruler.Data.IgnoreSnapping = true
	guide := named("guide")
	guide.Data.Role = RoleGuide
	all := []*Object{content, ignored, ruler, guide}

	assert.Equal(t, []string{"content"}, ids(FilterSnappingExcludes(all)))
	assert.Equal(t, []string{"content", "ignored", "guide"}, ids(FilterRulerExcludes(all)))
	assert.Equal(t, []string{"content"}, ids(FilterSaveExcludes(all)))
	assert.Empty(t, FilterSaveExcludes(nil))
}

func TestNewIDsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		require.False(t, seen[id])
		seen[id] = true
	}
}

package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffineInverseRoundTrip(t *testing.T) {
	tr := Translation(12, -7).Compose(Scale(2.5, 2.5))
	inv, ok := tr.Inverse()
	require.True(t, ok)

	for _, p := range []Point2D{{0, 0}, {1, 1}, {-300.25, 18.5}, {1e4, -1e4}} {
		back := inv.Apply(tr.Apply(p))
		assert.InDelta(t, p.X, back.X, 1e-9)
		assert.InDelta(t, p.Y, back.Y, 1e-9)
	}
}

func TestAffineSingular(t *testing.T) {
	_, ok := Scale(0, 1).Inverse()
	assert.False(t, ok)
}

func TestArrayOrder(t *testing.T) {
	tr := AffineTransform{A: 2, B: 3, TX: 10, C: 4, D: 5, TY: 20}
	arr := tr.ToArray()
	assert.Equal(t, [6]float64{2, 4, 3, 5, 10, 20}, arr)
}

func TestRectEdges(t *testing.T) {
	r := NewRect(10, 20, 100, 50)
	assert.Equal(t, 10.0, r.Left())
	assert.Equal(t, 110.0, r.Right())
	assert.Equal(t, 20.0, r.Top())
	assert.Equal(t, 70.0, r.Bottom())
	assert.Equal(t, 60.0, r.CenterX())
	assert.Equal(t, 45.0, r.CenterY())
}

func TestRotatedCorners(t *testing.T) {
	r := NewRect(0, 0, 10, 4)
	c := r.RotatedCorners(90)
	// Rotation pivots on the top-left corner.
	assert.InDelta(t, 0, c[0].X, 1e-9)
	assert.InDelta(t, 0, c[0].Y, 1e-9)
	assert.InDelta(t, 0, c[1].X, 1e-9)
	assert.InDelta(t, 10, c[1].Y, 1e-9)

	assert.True(t, PointInPolygon(NewPoint2D(-2, 5), c))
	assert.False(t, PointInPolygon(NewPoint2D(5, 2), c))
}

func TestDistanceToSegment(t *testing.T) {
	a, b := NewPoint2D(0, 0), NewPoint2D(10, 0)
	assert.InDelta(t, 3, DistanceToSegment(NewPoint2D(5, 3), a, b), 1e-9)
	assert.InDelta(t, 5, DistanceToSegment(NewPoint2D(13, 4), a, b), 1e-9)
	assert.InDelta(t, math.Sqrt(2), DistanceToSegment(NewPoint2D(1, 1), a, a), 1e-9)
}

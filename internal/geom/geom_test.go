package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	assert.Equal(t, 5.0, Distance(Pt(0, 0), Pt(3, 4)))
	assert.Equal(t, 0.0, Distance(Pt(7, -2), Pt(7, -2)))
	assert.InDelta(t, math.Sqrt(5), Distance(Pt(400, 100), Pt(398, 101)), 1e-9)
}

func TestWithinIsInclusive(t *testing.T) {
	tests := []struct {
		name   string
		b      Point
		radius float64
		want   bool
	}{
		{"inside", Pt(10, 0), 15, true},
		{"on edge", Pt(15, 0), 15, true},
		{"outside", Pt(15.01, 0), 15, false},
		{"diagonal outside", Pt(11, 11), 15, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Within(Pt(0, 0), tt.b, tt.radius))
		})
	}
}

func TestRect(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 100, H: 50}

	assert.True(t, r.Contains(Pt(10, 20)))
	assert.True(t, r.Contains(Pt(110, 70)))
	assert.False(t, r.Contains(Pt(9.9, 30)))
	assert.Equal(t, Pt(60, 45), r.Center())

	u := r.Union(Rect{X: 0, Y: 0, W: 5, H: 5})
	assert.Equal(t, Rect{X: 0, Y: 0, W: 110, H: 70}, u)
	assert.Equal(t, r, Rect{}.Union(r))

	assert.Equal(t, Rect{X: 8, Y: 18, W: 104, H: 54}, r.Grow(2))
	assert.Equal(t, 0.0, Rect{W: 2, H: 2}.Grow(-5).W)
}

func TestClosestOnSegment(t *testing.T) {
	a, b := Pt(0, 0), Pt(10, 0)

	assert.Equal(t, Pt(4, 0), ClosestOnSegment(a, b, Pt(4, 3)))
	assert.Equal(t, a, ClosestOnSegment(a, b, Pt(-5, 1)))
	assert.Equal(t, b, ClosestOnSegment(a, b, Pt(20, -1)))
	assert.Equal(t, a, ClosestOnSegment(a, a, Pt(3, 3)))
	assert.Equal(t, 3.0, DistanceToSegment(a, b, Pt(4, 3)))
}

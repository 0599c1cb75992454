package geom

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const w = 50.0

func TestPointInSquareIsStrict(t *testing.T) {
	o := Point{X: 0, Y: 0}

	assert.True(t, PointInSquare(Point{X: 25, Y: 25}, o, w))
	assert.True(t, PointInSquare(Point{X: 0.001, Y: 49.999}, o, w))

	for _, p := range []Point{
		{X: 0, Y: 25},  // left edge
		{X: 50, Y: 25}, // right edge
		{X: 25, Y: 0},  // bottom edge
		{X: 25, Y: 50}, // top edge
		{X: 0, Y: 0},   // vertex
		{X: 50, Y: 50},
		{X: -1, Y: 25},
		{X: 25, Y: 51},
	} {
		assert.False(t, PointInSquare(p, o, w), "point %v", p)
	}
}

func TestPointInHalfOpenSquare(t *testing.T) {
	o := Point{X: 10, Y: 10}

	assert.True(t, PointInHalfOpenSquare(Point{X: 10, Y: 10}, o, w))
	assert.True(t, PointInHalfOpenSquare(Point{X: 59.9, Y: 10}, o, w))
	assert.False(t, PointInHalfOpenSquare(Point{X: 60, Y: 10}, o, w))
	assert.False(t, PointInHalfOpenSquare(Point{X: 10, Y: 60}, o, w))
	assert.False(t, PointInHalfOpenSquare(Point{X: 9.99, Y: 30}, o, w))
}

func TestCornersAndCenter(t *testing.T) {
	c := Corners(Point{X: 1, Y: 2}, w)
	assert.Equal(t, [4]Point{{1, 2}, {51, 2}, {1, 52}, {51, 52}}, c)
	assert.Equal(t, Point{X: 26, Y: 27}, Center(Point{X: 1, Y: 2}, w))
}

func TestSquaresOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want bool
	}{
		{"identical anchors", Point{0, 0}, Point{0, 0}, true},
		{"diagonal offset", Point{0, 0}, Point{10, 20}, true},
		{"negative offset", Point{0, 0}, Point{-49, -1}, true},
		{"same column", Point{0, 0}, Point{0, 30}, true},
		{"touching right edge", Point{0, 0}, Point{50, 0}, false},
		{"touching top edge", Point{0, 0}, Point{10, 50}, false},
		{"shared vertex", Point{0, 0}, Point{50, 50}, false},
		{"far apart", Point{0, 0}, Point{200, -200}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SquaresOverlap(tt.a, tt.b, w))
			assert.Equal(t, tt.want, SquaresOverlap(tt.b, tt.a, w), "must be symmetric")
		})
	}
}

func TestOverlapPredicatesAreSymmetric(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for range 2000 {
		a := Point{X: rng.Float64()*200 - 100, Y: rng.Float64()*200 - 100}
		b := Point{X: rng.Float64()*200 - 100, Y: rng.Float64()*200 - 100}
		for _, mode := range []OverlapMode{OverlapArea, OverlapCorners, OverlapLegacy} {
			f := mode.Func()
			require.Equal(t, f(a, b, w), f(b, a, w), "%s: %v %v", mode, a, b)
		}
	}
}

func TestCornerReadingsAgreeOffAxis(t *testing.T) {
	// For equal-width squares with non-zero offsets on both axes the legacy
	// formula, the corner reading and the area reading all agree.
	rng := rand.New(rand.NewPCG(3, 5))
	for range 5000 {
		a := Point{X: rng.Float64() * 120, Y: rng.Float64() * 120}
		b := Point{X: rng.Float64() * 120, Y: rng.Float64() * 120}
		if a.X == b.X || a.Y == b.Y {
			continue
		}
		area := SquaresOverlap(a, b, w)
		require.Equal(t, area, CornersOverlap(a, b, w), "%v %v", a, b)
		require.Equal(t, area, LegacyOverlap(a, b, w), "%v %v", a, b)
	}
}

func TestCornerReadingsMissAlignedSquares(t *testing.T) {
	aligned := []Point{{0, 0}, {0, 20}, {20, 0}}
	for _, b := range aligned {
		assert.True(t, SquaresOverlap(Point{}, b, w), "%v", b)
		assert.False(t, CornersOverlap(Point{}, b, w), "%v", b)
		assert.False(t, LegacyOverlap(Point{}, b, w), "%v", b)
	}
}

func TestParseOverlapMode(t *testing.T) {
	m, err := ParseOverlapMode("")
	require.NoError(t, err)
	assert.Equal(t, OverlapArea, m)

	m, err = ParseOverlapMode(" Legacy ")
	require.NoError(t, err)
	assert.Equal(t, OverlapLegacy, m)

	_, err = ParseOverlapMode("circle")
	assert.Error(t, err)
}

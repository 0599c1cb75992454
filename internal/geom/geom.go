// internal/geom/geom.go
//
// Pure geometry predicates for axis-aligned, equal-width squares.
// Squares are anchored at their bottom-left corner.
//
// Three overlap readings are provided:
//   - SquaresOverlap:  positive-area intersection (the default).
//   - CornersOverlap:  any corner of either square strictly inside the other.
//   - LegacyOverlap:   the asymmetric OR/AND corner formula shipped by the
//                      first release of the game, kept for compatibility tests.
//
// All functions are total over finite inputs and never mutate anything.

package geom

import (
	"fmt"
	"math"
	"strings"
)

// Point is a position in the 2-D field coordinate space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{X: p.X + dx, Y: p.Y + dy} }

// PointInSquare reports whether p lies strictly inside the square anchored at
// origin. Points on any edge are outside.
func PointInSquare(p, origin Point, width float64) bool {
	return p.X > origin.X && p.X < origin.X+width &&
		p.Y > origin.Y && p.Y < origin.Y+width
}

// PointInHalfOpenSquare reports whether p lies in [x, x+w) × [y, y+w).
func PointInHalfOpenSquare(p, origin Point, width float64) bool {
	return p.X >= origin.X && p.X < origin.X+width &&
		p.Y >= origin.Y && p.Y < origin.Y+width
}

// Corners returns the four corners of the square anchored at origin in the
// order bottom-left, bottom-right, top-left, top-right.
func Corners(origin Point, width float64) [4]Point {
	return [4]Point{
		origin,
		origin.Add(width, 0),
		origin.Add(0, width),
		origin.Add(width, width),
	}
}

// Center returns the midpoint of the square anchored at origin.
func Center(origin Point, width float64) Point {
	return origin.Add(width/2, width/2)
}

// SquaresOverlap reports whether two width×width squares share a region of
// strictly positive area. Squares that only touch along an edge or at a
// vertex do not overlap; squares with identical anchors do.
func SquaresOverlap(a, b Point, width float64) bool {
	return math.Abs(a.X-b.X) < width && math.Abs(a.Y-b.Y) < width
}

// CornersOverlap reports whether any corner of either square lies strictly
// inside the other.
func CornersOverlap(a, b Point, width float64) bool {
	return anyCornerInside(a, b, width) || anyCornerInside(b, a, width)
}

func anyCornerInside(a, b Point, width float64) bool {
	for _, c := range Corners(a, width) {
		if PointInSquare(c, b, width) {
			return true
		}
	}
	return false
}

// LegacyOverlap is the first-generation corner formula kept verbatim, including
// its precedence: (bl || br || tl && tr), evaluated for both pairings.
func LegacyOverlap(a, b Point, width float64) bool {
	return legacyHalf(a, b, width) || legacyHalf(b, a, width)
}

func legacyHalf(a, b Point, width float64) bool {
	c := Corners(a, width)
	return PointInSquare(c[0], b, width) ||
		PointInSquare(c[1], b, width) ||
		PointInSquare(c[2], b, width) && PointInSquare(c[3], b, width)
}

// OverlapFunc is the signature shared by the overlap predicates.
type OverlapFunc func(a, b Point, width float64) bool

// OverlapMode names one of the overlap predicates.
type OverlapMode string

const (
	OverlapArea    OverlapMode = "area"
	OverlapCorners OverlapMode = "corners"
	OverlapLegacy  OverlapMode = "legacy"
)

// ParseOverlapMode maps a config string to an OverlapMode. Empty means area.
func ParseOverlapMode(s string) (OverlapMode, error) {
	switch m := OverlapMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return OverlapArea, nil
	case OverlapArea, OverlapCorners, OverlapLegacy:
		return m, nil
	default:
		return "", fmt.Errorf("geom: unknown overlap mode %q", s)
	}
}

// Func returns the predicate for m. Unknown modes fall back to SquaresOverlap.
func (m OverlapMode) Func() OverlapFunc {
	switch m {
	case OverlapCorners:
		return CornersOverlap
	case OverlapLegacy:
		return LegacyOverlap
	default:
		return SquaresOverlap
	}
}

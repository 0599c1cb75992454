// internal/row/row.go
//
// Holding row: a fixed number of slots that fill left to right with the
// colors of selected tiles. Three of one color make a match, which is evicted
// while the remaining colors close ranks toward slot 0.

package row

import (
	"errors"
	"fmt"

	"github.com/robalobadob/triplosion/internal/geom"
	"github.com/robalobadob/triplosion/internal/palette"
)

// MatchSize is the number of equal colors that form a match.
const MatchSize = 3

// DefaultCapacity is the reference slot count.
const DefaultCapacity = 6

// ErrCapacity reports a capacity too small to ever hold a match.
var ErrCapacity = errors.New("row: capacity must be at least 3")

// Row is the ordered sequence of occupied slots. Used() == len(colors) always.
type Row struct {
	capacity int
	colors   []palette.Color
}

// New returns an empty row with the given number of slots.
func New(capacity int) (*Row, error) {
	if capacity < MatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrCapacity, capacity)
	}
	return &Row{capacity: capacity, colors: make([]palette.Color, 0, capacity)}, nil
}

// Cap returns the number of slots.
func (r *Row) Cap() int { return r.capacity }

// Used returns the number of occupied slots.
func (r *Row) Used() int { return len(r.colors) }

// Full reports whether every slot is occupied.
func (r *Row) Full() bool { return len(r.colors) == r.capacity }

// Colors returns a copy of the occupied slots in order.
func (r *Row) Colors() []palette.Color {
	return append([]palette.Color(nil), r.colors...)
}

// Accept puts c into the next free slot and returns that slot's index.
// It returns false when the row is full.
func (r *Row) Accept(c palette.Color) (int, bool) {
	if r.Full() {
		return 0, false
	}
	r.colors = append(r.colors, c)
	return len(r.colors) - 1, true
}

// MatchedColor returns a color present exactly MatchSize times. When several
// qualify, the lowest palette index wins.
func (r *Row) MatchedColor() (palette.Color, bool) {
	counts := make(map[palette.Color]int, len(r.colors))
	for _, c := range r.colors {
		counts[c]++
	}
	var (
		best  palette.Color
		found bool
	)
	for c, n := range counts {
		if n == MatchSize && (!found || c < best) {
			best, found = c, true
		}
	}
	return best, found
}

// ResolveMatch evicts exactly MatchSize occurrences of the matched color, if
// any, and compacts the remaining colors toward slot 0 in their prior order.
func (r *Row) ResolveMatch() (palette.Color, bool) {
	c, ok := r.MatchedColor()
	if !ok {
		return 0, false
	}
	kept := r.colors[:0]
	removed := 0
	for _, x := range r.colors {
		if x == c && removed < MatchSize {
			removed++
			continue
		}
		kept = append(kept, x)
	}
	r.colors = kept
	return c, true
}

// Layout positions slots on screen: slot i sits at Origin + (i*Spacing, 0).
type Layout struct {
	Origin  geom.Point
	Spacing float64
}

// DefaultLayout is the reference slot placement below the field.
func DefaultLayout() Layout {
	return Layout{Origin: geom.Point{X: -225, Y: -375}, Spacing: 75}
}

// Position returns the anchor of slot i.
func (l Layout) Position(i int) geom.Point {
	return l.Origin.Add(float64(i)*l.Spacing, 0)
}

// Slot is one occupied slot as seen by a renderer.
type Slot struct {
	Index int           `json:"index"`
	Color palette.Color `json:"color"`
	Pos   geom.Point    `json:"pos"`
}

// Slots enumerates occupied slots with their layout positions.
func (r *Row) Slots(l Layout) []Slot {
	out := make([]Slot, len(r.colors))
	for i, c := range r.colors {
		out[i] = Slot{Index: i, Color: c, Pos: l.Position(i)}
	}
	return out
}

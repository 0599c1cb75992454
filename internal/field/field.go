// internal/field/field.go
//
// The tile field owns every live tile and keeps their occlusion state.
// Responsibilities:
//   - Place tiles, assigning stacking order against the tiles already placed.
//   - Find the front tile under a point.
//   - Remove tiles and locally re-derive occlusion around the hole.
//   - Offer full re-derivations for cross-checking the incremental path.
//
// Overlap tests are pure (geom); every state change happens in an explicit
// mutation step inside this package.

package field

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/kamstrup/intmap"

	"github.com/robalobadob/triplosion/internal/geom"
	"github.com/robalobadob/triplosion/internal/palette"
)

var (
	// ErrConfig reports an unusable field configuration.
	ErrConfig = errors.New("field: invalid config")
	// ErrBadCount reports a tile count that is not a positive multiple of 3.
	ErrBadCount = errors.New("field: tile count must be a positive multiple of 3")
)

// Config describes field sizing.
type Config struct {
	Count   int              // tiles to generate; multiple of 3
	Width   float64          // tile side length
	Min     float64          // generation bounds per axis: [Min, Max)
	Max     float64
	Overlap geom.OverlapFunc // nil means geom.SquaresOverlap
	Window  float64          // recovery proximity window; <= 0 means 2*Width
	Recover Recovery         // "" means RecoverCorners
}

// Recovery selects the rule RecoverOcclusion uses to bring a Back tile to
// the front.
type Recovery string

const (
	// RecoverCorners exposes a candidate when none of its four corners is
	// claimed by a Front tile.
	RecoverCorners Recovery = "corners"
	// RecoverStrict additionally requires that no remaining tile stacked
	// above the candidate overlaps it. Results then agree with Rederive.
	RecoverStrict Recovery = "strict"
)

// ParseRecovery maps a config string to a Recovery. Empty means corners.
func ParseRecovery(s string) (Recovery, error) {
	switch r := Recovery(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RecoverCorners, nil
	case RecoverCorners, RecoverStrict:
		return r, nil
	default:
		return "", fmt.Errorf("%w: unknown recovery mode %q", ErrConfig, s)
	}
}

// DefaultConfig matches the reference sizing: 12 triples of 50-wide tiles
// scattered over [-150, 150)².
func DefaultConfig() Config {
	return Config{
		Count:   36,
		Width:   50,
		Min:     -150,
		Max:     150,
		Overlap: geom.SquaresOverlap,
		Window:  100,
		Recover: RecoverCorners,
	}
}

// Field is the collection of live tiles. It is not safe for concurrent use.
type Field struct {
	cfg   Config
	tiles *intmap.Map[TileID, *Tile]
	next  TileID
}

// New returns an empty field.
func New(cfg Config) (*Field, error) {
	if cfg.Width <= 0 || math.IsNaN(cfg.Width) || math.IsInf(cfg.Width, 0) {
		return nil, fmt.Errorf("%w: width %v", ErrConfig, cfg.Width)
	}
	if cfg.Overlap == nil {
		cfg.Overlap = geom.SquaresOverlap
	}
	if cfg.Window <= 0 {
		cfg.Window = 2 * cfg.Width
	}
	if cfg.Recover == "" {
		cfg.Recover = RecoverCorners
	}
	if cfg.Recover != RecoverCorners && cfg.Recover != RecoverStrict {
		return nil, fmt.Errorf("%w: recovery mode %q", ErrConfig, cfg.Recover)
	}
	capacity := cfg.Count
	if capacity < 8 {
		capacity = 8
	}
	return &Field{
		cfg:   cfg,
		tiles: intmap.New[TileID, *Tile](capacity),
		next:  1,
	}, nil
}

// Width returns the tile side length.
func (f *Field) Width() float64 { return f.cfg.Width }

// Len returns the number of live tiles.
func (f *Field) Len() int { return f.tiles.Len() }

// Get returns a copy of the tile with the given id.
func (f *Field) Get(id TileID) (Tile, bool) {
	t, ok := f.tiles.Get(id)
	if !ok {
		return Tile{}, false
	}
	return *t, true
}

// Tiles returns copies of all live tiles ordered bottom to top (stacking
// index, then id), which is also a valid paint order.
func (f *Field) Tiles() []Tile {
	out := make([]Tile, 0, f.tiles.Len())
	f.tiles.ForEach(func(_ TileID, t *Tile) bool {
		out = append(out, *t)
		return true
	})
	slices.SortFunc(out, func(a, b Tile) int {
		if a.Stack != b.Stack {
			return a.Stack - b.Stack
		}
		return int(a.ID) - int(b.ID)
	})
	return out
}

// Place adds a tile at pos on top of every tile it overlaps. Its stacking
// index is one more than the highest overlapped index, or 1 if it overlaps
// nothing. Overlapped tiles become Back.
func (f *Field) Place(pos geom.Point, c palette.Color) Tile {
	under := f.overlapping(pos)
	stack := 1
	for _, u := range under {
		stack = max(stack, u.Stack+1)
	}
	f.markBack(under)

	t := &Tile{ID: f.next, Pos: pos, Color: c, Stack: stack, State: Front}
	f.next++
	f.tiles.Put(t.ID, t)
	return *t
}

// overlapping lists live tiles whose squares overlap the square at pos.
func (f *Field) overlapping(pos geom.Point) []*Tile {
	var out []*Tile
	f.tiles.ForEach(func(_ TileID, t *Tile) bool {
		if f.cfg.Overlap(t.Pos, pos, f.cfg.Width) {
			out = append(out, t)
		}
		return true
	})
	return out
}

func (f *Field) markBack(ts []*Tile) {
	for _, t := range ts {
		t.State = Back
	}
}

// FrontTileAt returns the Front tile whose square contains p in
// [x, x+w) × [y, y+w). Should several claim p, the highest stacking index
// (then lowest id) wins.
func (f *Field) FrontTileAt(p geom.Point) (Tile, bool) {
	t := f.frontAt(p)
	if t == nil {
		return Tile{}, false
	}
	return *t, true
}

func (f *Field) frontAt(p geom.Point) *Tile {
	var best *Tile
	f.tiles.ForEach(func(_ TileID, t *Tile) bool {
		if t.State != Front || !geom.PointInHalfOpenSquare(p, t.Pos, f.cfg.Width) {
			return true
		}
		if best == nil || t.Stack > best.Stack || (t.Stack == best.Stack && t.ID < best.ID) {
			best = t
		}
		return true
	})
	return best
}

// Remove takes a tile out of the field. Occlusion of the tiles around it is
// not touched; call RecoverOcclusion with the returned tile's position.
func (f *Field) Remove(id TileID) (Tile, bool) {
	t, ok := f.tiles.Get(id)
	if !ok {
		return Tile{}, false
	}
	f.tiles.Del(id)
	return *t, true
}

// RecoverOcclusion re-derives the state of Back tiles near a removed tile
// anchored at removed. Only tiles whose center lies within the proximity
// window of the removed tile's center are considered. Candidates are visited
// top-down; one becomes Front when none of its corners is claimed by a Front
// tile. Under RecoverStrict it must also have no overlapping tile above it.
func (f *Field) RecoverOcclusion(removed geom.Point) {
	w := f.cfg.Width
	c := geom.Center(removed, w)

	var cands []*Tile
	f.tiles.ForEach(func(_ TileID, t *Tile) bool {
		if t.State != Back {
			return true
		}
		m := geom.Center(t.Pos, w)
		if math.Abs(c.X-m.X) < f.cfg.Window && math.Abs(c.Y-m.Y) < f.cfg.Window {
			cands = append(cands, t)
		}
		return true
	})
	slices.SortFunc(cands, func(a, b *Tile) int {
		if a.Stack != b.Stack {
			return b.Stack - a.Stack
		}
		return int(a.ID) - int(b.ID)
	})

	for _, t := range cands {
		if f.exposed(t) {
			t.State = Front
		}
	}
}

func (f *Field) exposed(t *Tile) bool {
	for _, corner := range geom.Corners(t.Pos, f.cfg.Width) {
		if f.frontAt(corner) != nil {
			return false
		}
	}
	return f.cfg.Recover != RecoverStrict || !f.coveredAbove(t)
}

// coveredAbove reports whether a live tile with a higher stacking index
// overlaps t.
func (f *Field) coveredAbove(t *Tile) bool {
	covered := false
	f.tiles.ForEach(func(_ TileID, o *Tile) bool {
		if o.Stack > t.Stack && f.cfg.Overlap(o.Pos, t.Pos, f.cfg.Width) {
			covered = true
			return false
		}
		return true
	})
	return covered
}

// ResetOcclusion marks every tile Front and then marks Back every tile whose
// square overlaps the square anchored at pivot.
func (f *Field) ResetOcclusion(pivot geom.Point) {
	f.tiles.ForEach(func(_ TileID, t *Tile) bool {
		t.State = Front
		if f.cfg.Overlap(t.Pos, pivot, f.cfg.Width) {
			t.State = Back
		}
		return true
	})
}

// Rederive recomputes every tile's state from stacking order alone: a tile is
// Front iff no overlapping tile sits above it. Quadratic in field size.
func (f *Field) Rederive() {
	f.tiles.ForEach(func(_ TileID, t *Tile) bool {
		if f.coveredAbove(t) {
			t.State = Back
		} else {
			t.State = Front
		}
		return true
	})
}

package field

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/robalobadob/triplosion/internal/geom"
	"github.com/robalobadob/triplosion/internal/palette"
)

// Generate builds a field of cfg.Count tiles in groups of three. Each group
// draws one color uniformly from pal; each tile draws its anchor uniformly
// from [Min, Max) on both axes and is placed on top of what it overlaps.
func Generate(cfg Config, pal palette.Palette, rng *rand.Rand) (*Field, error) {
	if cfg.Count <= 0 || cfg.Count%3 != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrBadCount, cfg.Count)
	}
	if pal.Len() == 0 {
		return nil, fmt.Errorf("%w: %w", ErrConfig, palette.ErrEmpty)
	}
	if !(cfg.Max > cfg.Min) || math.IsInf(cfg.Max-cfg.Min, 0) {
		return nil, fmt.Errorf("%w: bounds [%v, %v)", ErrConfig, cfg.Min, cfg.Max)
	}
	if rng == nil {
		return nil, fmt.Errorf("%w: nil random source", ErrConfig)
	}

	f, err := New(cfg)
	if err != nil {
		return nil, err
	}
	span := cfg.Max - cfg.Min
	for range cfg.Count / 3 {
		c := palette.Color(rng.IntN(pal.Len()))
		for range 3 {
			pos := geom.Point{
				X: cfg.Min + rng.Float64()*span,
				Y: cfg.Min + rng.Float64()*span,
			}
			f.Place(pos, c)
		}
	}
	return f, nil
}

// internal/field/tile.go
//
// Core type definitions for the tile field.
// Defines:
//   - TileID:    stable handle for a placed tile.
//   - Occlusion: closed Front/Back state.
//   - Tile:      one colored square with its stacking index.

package field

import (
	"fmt"

	"github.com/robalobadob/triplosion/internal/geom"
	"github.com/robalobadob/triplosion/internal/palette"
)

// TileID identifies a tile for the lifetime of its field. IDs start at 1 and
// follow placement order.
type TileID uint32

// Occlusion says whether a tile can currently be selected.
type Occlusion uint8

const (
	Front Occlusion = iota // not covered by any higher tile; selectable
	Back                   // covered by at least one higher tile
)

func (o Occlusion) String() string {
	switch o {
	case Front:
		return "front"
	case Back:
		return "back"
	default:
		return fmt.Sprintf("occlusion(%d)", uint8(o))
	}
}

// MarshalText encodes the state as "front" or "back".
func (o Occlusion) MarshalText() ([]byte, error) {
	switch o {
	case Front, Back:
		return []byte(o.String()), nil
	default:
		return nil, fmt.Errorf("field: invalid occlusion %d", uint8(o))
	}
}

// UnmarshalText decodes "front" or "back".
func (o *Occlusion) UnmarshalText(b []byte) error {
	switch string(b) {
	case "front":
		*o = Front
	case "back":
		*o = Back
	default:
		return fmt.Errorf("field: invalid occlusion %q", b)
	}
	return nil
}

// Tile is a square of the field's width anchored at Pos (bottom-left).
// Stack is assigned at placement and never changes; State is derived.
type Tile struct {
	ID    TileID        `json:"id"`
	Pos   geom.Point    `json:"pos"`
	Color palette.Color `json:"color"`
	Stack int           `json:"stack"`
	State Occlusion     `json:"state"`
}

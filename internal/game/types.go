// internal/game/types.go
//
// Core type definitions for a Triplosion session.
// Defines:
//   - State:       playing / blocked / won.
//   - OutcomeKind: what a single selection did.
//   - TurnOutcome: the full result of SelectAt.
//   - Options:     everything a session needs to generate its field.
//   - Snapshot:    a render-ready view of a session.

package game

import (
	"time"

	"github.com/robalobadob/triplosion/internal/field"
	"github.com/robalobadob/triplosion/internal/palette"
	"github.com/robalobadob/triplosion/internal/row"
)

// State is the session state machine position.
// Possible values:
//   - "playing": selections are accepted.
//   - "blocked": the holding row was full when a tile was offered.
//   - "won":     the field is empty.
type State string

const (
	StatePlaying State = "playing"
	StateBlocked State = "blocked"
	StateWon     State = "won"
)

// Terminal reports whether no further selections are accepted.
func (s State) Terminal() bool { return s == StateBlocked || s == StateWon }

// OutcomeKind classifies a turn.
// Possible values:
//   - "no_tile":  no front tile under the point; nothing changed.
//   - "row_full": the row had no free slot; the session is now blocked.
//   - "accepted": the tile moved into Slot.
//   - "matched":  as accepted, and a triple of Color was evicted.
//   - "won":      as accepted (possibly matched), and the field is empty.
//   - "finished": the session was already terminal; the turn was ignored.
type OutcomeKind string

const (
	OutcomeNoTile   OutcomeKind = "no_tile"
	OutcomeRowFull  OutcomeKind = "row_full"
	OutcomeAccepted OutcomeKind = "accepted"
	OutcomeMatched  OutcomeKind = "matched"
	OutcomeWon      OutcomeKind = "won"
	OutcomeFinished OutcomeKind = "finished"
)

// TurnOutcome is the result of one SelectAt call. Tile and Slot are set for
// accepted/matched/won turns; Color is set only when Matched is true.
type TurnOutcome struct {
	Kind    OutcomeKind    `json:"kind"`
	Tile    *field.Tile    `json:"tile,omitempty"`
	Slot    int            `json:"slot"`
	Matched bool           `json:"matched"`
	Color   *palette.Color `json:"color,omitempty"`
	State   State          `json:"state"`
}

// Options configures a session. A zero Seed picks a random one.
type Options struct {
	Field    field.Config
	Palette  palette.Palette
	Capacity int
	Layout   row.Layout
	Seed     uint64
}

// DefaultOptions returns the reference configuration.
func DefaultOptions() Options {
	return Options{
		Field:    field.DefaultConfig(),
		Palette:  palette.Default(),
		Capacity: row.DefaultCapacity,
		Layout:   row.DefaultLayout(),
	}
}

// Snapshot is everything a renderer needs to draw a session.
type Snapshot struct {
	ID       string          `json:"id"`
	State    State           `json:"state"`
	Seed     uint64          `json:"seed,string"`
	Moves    int             `json:"moves"`
	Matches  int             `json:"matches"`
	Width    float64         `json:"width"`
	Capacity int             `json:"capacity"`
	Palette  palette.Palette `json:"palette"`
	Tiles    []field.Tile    `json:"tiles"`
	Slots    []row.Slot      `json:"slots"`
	Started  time.Time       `json:"startedAt"`
}

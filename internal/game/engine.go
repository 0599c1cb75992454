// internal/game/engine.go
//
// Session orchestrator for a single Triplosion game.
// Responsibilities:
//   - Create sessions: generate the tile field from a seeded source and an
//     empty holding row.
//   - Run the per-turn protocol: front-tile lookup → slot reservation →
//     removal → occlusion recovery → match resolution → win check.
//   - Track state transitions: playing → blocked/won.
//
// A Session is not safe for concurrent use; callers serialize turns.
package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/triplosion/internal/field"
	"github.com/robalobadob/triplosion/internal/geom"
	"github.com/robalobadob/triplosion/internal/row"
)

// Session holds the whole state of one game.
type Session struct {
	ID         string
	Seed       uint64
	Field      *field.Field
	Row        *row.Row
	State      State
	Moves      int // accepted selections
	Matches    int // resolved triples
	StartedAt  time.Time
	FinishedAt time.Time

	opts Options
}

// New generates a fresh session. The field is drawn from a PCG source seeded
// with opts.Seed, so equal seeds give equal layouts.
func New(opts Options) (*Session, error) {
	seed := opts.Seed
	if seed == 0 {
		seed = randomSeed()
	}
	f, err := field.Generate(opts.Field, opts.Palette, newRand(seed))
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	s, err := NewWithField(opts, f)
	if err != nil {
		return nil, err
	}
	s.Seed = seed
	return s, nil
}

// NewWithField builds a session around an already populated field.
func NewWithField(opts Options, f *field.Field) (*Session, error) {
	r, err := row.New(opts.Capacity)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	return &Session{
		ID:        uuid.NewString(),
		Field:     f,
		Row:       r,
		State:     StatePlaying,
		StartedAt: time.Now().UTC(),
		opts:      opts,
	}, nil
}

// Restart discards s and returns a new session built from the same options
// with a freshly drawn seed.
func (s *Session) Restart() (*Session, error) {
	opts := s.opts
	opts.Seed = 0
	return New(opts)
}

// Options returns the options the session was built with.
func (s *Session) Options() Options { return s.opts }

// SelectAt applies one player selection at p.
//
// Steps:
//   - Terminal sessions ignore the turn (OutcomeFinished).
//   - No front tile under p → OutcomeNoTile, nothing changes.
//   - Row full → the session becomes blocked (OutcomeRowFull).
//   - Otherwise the tile leaves the field, occlusion is recovered around its
//     old position, and a completed triple is evicted from the row.
//   - An empty field wins the game.
func (s *Session) SelectAt(p geom.Point) TurnOutcome {
	if s.State.Terminal() {
		return TurnOutcome{Kind: OutcomeFinished, State: s.State}
	}

	t, ok := s.Field.FrontTileAt(p)
	if !ok {
		return TurnOutcome{Kind: OutcomeNoTile, State: s.State}
	}

	slot, ok := s.Row.Accept(t.Color)
	if !ok {
		s.finish(StateBlocked)
		return TurnOutcome{Kind: OutcomeRowFull, State: s.State}
	}

	s.Field.Remove(t.ID)
	s.Field.RecoverOcclusion(t.Pos)
	s.Moves++

	out := TurnOutcome{Kind: OutcomeAccepted, Tile: &t, Slot: slot}
	if c, ok := s.Row.ResolveMatch(); ok {
		s.Matches++
		out.Kind, out.Matched, out.Color = OutcomeMatched, true, &c
	}
	if s.Field.Len() == 0 {
		s.finish(StateWon)
		out.Kind = OutcomeWon
	}
	out.State = s.State
	return out
}

func (s *Session) finish(st State) {
	s.State = st
	s.FinishedAt = time.Now().UTC()
}

// Elapsed returns play time so far, or total play time once finished.
func (s *Session) Elapsed() time.Duration {
	if !s.FinishedAt.IsZero() {
		return s.FinishedAt.Sub(s.StartedAt)
	}
	return time.Since(s.StartedAt)
}

// Snapshot returns a render-ready copy of the session.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ID:       s.ID,
		State:    s.State,
		Seed:     s.Seed,
		Moves:    s.Moves,
		Matches:  s.Matches,
		Width:    s.Field.Width(),
		Capacity: s.Row.Cap(),
		Palette:  s.opts.Palette,
		Tiles:    s.Field.Tiles(),
		Slots:    s.Row.Slots(s.opts.Layout),
		Started:  s.StartedAt,
	}
}

// newRand returns the session's deterministic random source.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// randomSeed returns a non-zero seed from crypto/rand.
func randomSeed() uint64 {
	var b [8]byte
	for {
		_, _ = crand.Read(b[:])
		if n := binary.LittleEndian.Uint64(b[:]); n != 0 {
			return n
		}
	}
}

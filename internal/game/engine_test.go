package game

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/triplosion/internal/field"
	"github.com/robalobadob/triplosion/internal/geom"
	"github.com/robalobadob/triplosion/internal/palette"
)

// stackOptions generates three same-colored tiles crowded into a tiny
// region, so each one sits on top of the previous.
func stackOptions() Options {
	opts := DefaultOptions()
	opts.Palette = palette.Palette{"red"}
	opts.Field.Count = 3
	opts.Field.Min, opts.Field.Max = 0, 0.001
	opts.Seed = 99
	return opts
}

func TestSelectThroughStackWins(t *testing.T) {
	s, err := New(stackOptions())
	require.NoError(t, err)
	require.Equal(t, 3, s.Field.Len())

	tiles := s.Field.Tiles()
	byStack := map[int]field.TileID{}
	for _, tl := range tiles {
		byStack[tl.Stack] = tl.ID
	}
	require.Len(t, byStack, 3)

	p := geom.Point{X: 25, Y: 25}

	out := s.SelectAt(p)
	assert.Equal(t, OutcomeAccepted, out.Kind)
	require.NotNil(t, out.Tile)
	assert.Equal(t, byStack[3], out.Tile.ID)
	assert.Equal(t, 0, out.Slot)
	assert.Equal(t, StatePlaying, out.State)

	out = s.SelectAt(p)
	assert.Equal(t, OutcomeAccepted, out.Kind)
	assert.Equal(t, byStack[2], out.Tile.ID)
	assert.Equal(t, 1, out.Slot)

	out = s.SelectAt(p)
	assert.Equal(t, OutcomeWon, out.Kind)
	assert.Equal(t, byStack[1], out.Tile.ID)
	assert.Equal(t, 2, out.Slot)
	assert.True(t, out.Matched)
	require.NotNil(t, out.Color)
	assert.Equal(t, palette.Color(0), *out.Color)
	assert.Equal(t, StateWon, out.State)

	assert.Zero(t, s.Field.Len())
	assert.Zero(t, s.Row.Used())
	assert.Equal(t, 3, s.Moves)
	assert.Equal(t, 1, s.Matches)
	assert.False(t, s.FinishedAt.IsZero())

	out = s.SelectAt(p)
	assert.Equal(t, OutcomeFinished, out.Kind)
	assert.Equal(t, StateWon, out.State)
}

func TestSelectMissIsHarmless(t *testing.T) {
	s, err := New(stackOptions())
	require.NoError(t, err)

	out := s.SelectAt(geom.Point{X: 500, Y: 500})
	assert.Equal(t, OutcomeNoTile, out.Kind)
	assert.Nil(t, out.Tile)
	assert.Equal(t, StatePlaying, s.State)
	assert.Equal(t, 3, s.Field.Len())
	assert.Zero(t, s.Moves)
}

// spreadSession lays out one tile per palette color, 100 apart, so every tile
// is front and no color can ever match.
func spreadSession(t *testing.T, n int) *Session {
	t.Helper()
	opts := DefaultOptions()
	f, err := field.New(opts.Field)
	require.NoError(t, err)
	for i := range n {
		f.Place(geom.Point{X: float64(i) * 100, Y: 0}, palette.Color(i))
	}
	s, err := NewWithField(opts, f)
	require.NoError(t, err)
	return s
}

func TestRowFullBlocksAndRestartResets(t *testing.T) {
	s := spreadSession(t, 7)

	for i := range 6 {
		out := s.SelectAt(geom.Point{X: float64(i)*100 + 10, Y: 10})
		require.Equal(t, OutcomeAccepted, out.Kind, "tile %d", i)
		assert.Equal(t, i, out.Slot)
	}
	require.Equal(t, 6, s.Row.Used())

	out := s.SelectAt(geom.Point{X: 610, Y: 10})
	assert.Equal(t, OutcomeRowFull, out.Kind)
	assert.Equal(t, StateBlocked, s.State)
	assert.Equal(t, 1, s.Field.Len(), "the rejected tile stays in the field")

	out = s.SelectAt(geom.Point{X: 610, Y: 10})
	assert.Equal(t, OutcomeFinished, out.Kind)
	assert.Equal(t, StateBlocked, out.State)

	fresh, err := s.Restart()
	require.NoError(t, err)
	assert.NotEqual(t, s.ID, fresh.ID)
	assert.Equal(t, s.Options().Capacity, fresh.Options().Capacity)
	assert.Equal(t, s.Options().Field.Count, fresh.Options().Field.Count)
	assert.Zero(t, fresh.Options().Seed)
	assert.Equal(t, StatePlaying, fresh.State)
	assert.Zero(t, fresh.Row.Used())
	assert.Equal(t, 36, fresh.Field.Len())
	assert.NotZero(t, fresh.Seed)
}

func TestMatchedTurnReportsColor(t *testing.T) {
	opts := DefaultOptions()
	f, err := field.New(opts.Field)
	require.NoError(t, err)
	blue, _ := opts.Palette.Lookup("blue")
	green, _ := opts.Palette.Lookup("green")
	for i, c := range []palette.Color{blue, green, blue, blue} {
		f.Place(geom.Point{X: float64(i) * 100, Y: 0}, c)
	}
	s, err := NewWithField(opts, f)
	require.NoError(t, err)

	kinds := make([]OutcomeKind, 0, 4)
	for i := range 3 {
		kinds = append(kinds, s.SelectAt(geom.Point{X: float64(i)*100 + 1, Y: 1}).Kind)
	}
	out := s.SelectAt(geom.Point{X: 301, Y: 1})
	kinds = append(kinds, out.Kind)

	assert.Equal(t, []OutcomeKind{OutcomeAccepted, OutcomeAccepted, OutcomeAccepted, OutcomeWon}, kinds)
	assert.True(t, out.Matched)
	require.NotNil(t, out.Color)
	assert.Equal(t, blue, *out.Color)

	// Replay with the matching tile not last: the third blue matches.
	f2, _ := field.New(opts.Field)
	for i, c := range []palette.Color{blue, blue, blue, green} {
		f2.Place(geom.Point{X: float64(i) * 100, Y: 0}, c)
	}
	s2, _ := NewWithField(opts, f2)
	first := s2.SelectAt(geom.Point{X: 1, Y: 1})
	assert.False(t, first.Matched)
	assert.Nil(t, first.Color)
	b, err := json.Marshal(first)
	require.NoError(t, err)
	assert.NotContains(t, string(b), `"color"`)

	s2.SelectAt(geom.Point{X: 101, Y: 1})
	out = s2.SelectAt(geom.Point{X: 201, Y: 1})
	assert.Equal(t, OutcomeMatched, out.Kind)
	assert.True(t, out.Matched)
	require.NotNil(t, out.Color)
	assert.Equal(t, blue, *out.Color)
	b, err = json.Marshal(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), fmt.Sprintf(`"color":%d`, blue))
	assert.Zero(t, s2.Row.Used())
	assert.Equal(t, StatePlaying, s2.State)
}

func TestSameSeedSameLayout(t *testing.T) {
	opts := DefaultOptions()
	opts.Seed = 12345
	a, err := New(opts)
	require.NoError(t, err)
	b, err := New(opts)
	require.NoError(t, err)

	assert.Equal(t, a.Field.Tiles(), b.Field.Tiles())
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNewRejectsBadOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Field.Count = 7
	_, err := New(opts)
	assert.ErrorIs(t, err, field.ErrBadCount)

	opts = DefaultOptions()
	opts.Capacity = 1
	_, err = New(opts)
	assert.Error(t, err)
}

func TestPlayingRandomGamesKeepsInvariants(t *testing.T) {
	for seed := uint64(1); seed <= 10; seed++ {
		opts := DefaultOptions()
		opts.Seed = seed
		s, err := New(opts)
		require.NoError(t, err)

		for !s.State.Terminal() {
			var front *field.Tile
			for _, tl := range s.Field.Tiles() {
				if tl.State == field.Front {
					front = &tl
					break
				}
			}
			require.NotNil(t, front, "seed %d: playing with nothing selectable", seed)

			before := s.Field.Len()
			out := s.SelectAt(geom.Center(front.Pos, s.Field.Width()))
			require.NotEqual(t, OutcomeNoTile, out.Kind)
			if out.Kind != OutcomeRowFull {
				require.Equal(t, before-1, s.Field.Len())
			}
			require.LessOrEqual(t, s.Row.Used(), s.Row.Cap())
		}
		if s.State == StateWon {
			assert.Zero(t, s.Row.Used())
		}
	}
}

func TestSnapshotJSON(t *testing.T) {
	s, err := New(stackOptions())
	require.NoError(t, err)
	s.SelectAt(geom.Point{X: 25, Y: 25})

	b, err := json.Marshal(s.Snapshot())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "playing", got["state"])
	assert.Len(t, got["tiles"], 2)
	assert.Len(t, got["slots"], 1)
	assert.Equal(t, []any{"red"}, got["palette"])
	assert.Equal(t, "99", got["seed"])
}

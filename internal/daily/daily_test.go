package daily

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/triplosion/internal/database"
)

func TestSeedIsStablePerDate(t *testing.T) {
	morning := time.Date(2026, 3, 14, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-03-14", DateKey(morning))
	assert.Equal(t, Seed(morning, "salt"), Seed(evening, "salt"))
	assert.NotEqual(t, Seed(morning, "salt"), Seed(nextDay, "salt"))
	assert.NotEqual(t, Seed(morning, "salt"), Seed(morning, "pepper"))
	assert.NotZero(t, Seed(morning, ""))
}

func newStore(t *testing.T) *Store {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "daily.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(db))
	return NewStore(db)
}

func TestResultsAndLeaderboard(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	date := "2026-03-14"
	seed := uint64(1<<63 + 5) // exceeds int64

	played, err := s.AlreadyPlayed(ctx, "alice", date)
	require.NoError(t, err)
	assert.False(t, played)

	require.NoError(t, s.InsertResult(ctx, Result{PlayerID: "alice", Date: date, Seed: seed, Moves: 40, ElapsedMs: 9000, Won: true}))
	require.NoError(t, s.InsertResult(ctx, Result{PlayerID: "bob", Date: date, Seed: seed, Moves: 36, ElapsedMs: 9000, Won: true}))
	require.NoError(t, s.InsertResult(ctx, Result{PlayerID: "carol", Date: date, Seed: seed, Moves: 36, ElapsedMs: 5000, Won: false}))
	// Duplicate is ignored.
	require.NoError(t, s.InsertResult(ctx, Result{PlayerID: "alice", Date: date, Seed: seed, Moves: 1, ElapsedMs: 1, Won: true}))

	played, err = s.AlreadyPlayed(ctx, "alice", date)
	require.NoError(t, err)
	assert.True(t, played)

	rows, err := s.Leaderboard(ctx, date, 0)
	require.NoError(t, err)
	assert.Equal(t, []LBRow{
		{PlayerID: "bob", Moves: 36, ElapsedMs: 9000},
		{PlayerID: "alice", Moves: 40, ElapsedMs: 9000},
	}, rows)

	rows, err = s.Leaderboard(ctx, "2000-01-01", 5)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

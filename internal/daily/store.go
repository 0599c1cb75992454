package daily

import (
	"context"
	"database/sql"
	"strconv"
)

// Result is one player's finished attempt at a date's challenge.
type Result struct {
	PlayerID  string `json:"playerId"`
	Date      string `json:"date"`
	Seed      uint64 `json:"seed,string"`
	Moves     int    `json:"moves"`
	ElapsedMs int64  `json:"elapsedMs"`
	Won       bool   `json:"won"`
}

// Store persists daily results in the daily_results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether playerID has a finished attempt for date.
func (s *Store) AlreadyPlayed(ctx context.Context, playerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE player_id=? AND date=?`,
		playerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records r. A second result for the same player and date is
// ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(player_id, date, seed, moves, elapsed_ms, won)
		 VALUES(?,?,?,?,?,?)`,
		r.PlayerID, r.Date, strconv.FormatUint(r.Seed, 10), r.Moves, r.ElapsedMs, r.Won,
	)
	return err
}

// LBRow is one leaderboard line.
type LBRow struct {
	PlayerID  string `json:"playerId"`
	Moves     int    `json:"moves"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Leaderboard returns the fastest winners for date, fewest moves breaking
// ties, then earliest finish. limit <= 0 means 20.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT player_id, moves, elapsed_ms
		 FROM daily_results
		 WHERE date=? AND won=1
		 ORDER BY elapsed_ms ASC, moves ASC, created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.PlayerID, &r.Moves, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

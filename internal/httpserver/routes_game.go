// internal/httpserver/routes_game.go
//
// Game endpoints:
//   - POST /game/new      → start a session (optional seed / tile count)
//   - GET  /game/{id}     → current snapshot
//   - POST /game/select   → select the tile under a point
//   - POST /game/restart  → abandon a session and start a fresh one
//
// The live session is the source of truth; the games table only mirrors
// counters and the final status (best effort, failures are logged).

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/triplosion/internal/field"
	"github.com/robalobadob/triplosion/internal/game"
	"github.com/robalobadob/triplosion/internal/geom"
	"github.com/robalobadob/triplosion/internal/store"
)

const (
	modeNormal = "normal"
	modeDaily  = "daily"

	maxTiles = 300
)

type newGameReq struct {
	Seed  string `json:"seed,omitempty"`  // decimal uint64; empty = random
	Tiles int    `json:"tiles,omitempty"` // multiple of 3; 0 = configured count
}

type gameRes struct {
	GameID string        `json:"gameId"`
	Game   game.Snapshot `json:"game"`
}

type selectReq struct {
	GameID string  `json:"gameId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

type selectRes struct {
	Outcome game.TurnOutcome `json:"outcome"`
	Game    game.Snapshot    `json:"game"`
}

// decodeJSON decodes the request body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// handleNewGame creates a session, stores it and records an owner row.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}

	opts := s.opts
	if req.Seed != "" {
		seed, err := strconv.ParseUint(req.Seed, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_seed")
			return
		}
		opts.Seed = seed
	}
	if req.Tiles != 0 {
		if req.Tiles < 0 || req.Tiles > maxTiles {
			writeError(w, http.StatusBadRequest, "bad_tiles")
			return
		}
		opts.Field.Count = req.Tiles
	}

	g, err := game.New(opts)
	if errors.Is(err, field.ErrBadCount) {
		writeError(w, http.StatusBadRequest, "bad_tiles")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("new game")
		writeError(w, http.StatusInternalServerError, "new_game_failed")
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.recordGame(w, r, g, modeNormal)

	writeJSON(w, http.StatusOK, gameRes{GameID: g.ID, Game: g.Snapshot()})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	var snap game.Snapshot
	err := s.store.With(r.Context(), chi.URLParam(r, "id"), func(g *game.Session) error {
		snap = g.Snapshot()
		return nil
	})
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	s.play(w, r, req)
}

// play applies one selection and mirrors its effects to the database.
func (s *Server) play(w http.ResponseWriter, r *http.Request, req selectReq) {
	var (
		out      game.TurnOutcome
		snap     game.Snapshot
		elapsed  time.Duration
		finished bool
	)
	err := s.store.With(r.Context(), req.GameID, func(g *game.Session) error {
		wasTerminal := g.State.Terminal()
		out = g.SelectAt(geom.Point{X: req.X, Y: req.Y})
		snap = g.Snapshot()
		elapsed = g.Elapsed()
		finished = !wasTerminal && g.State.Terminal()
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "select_failed")
		return
	}

	switch out.Kind {
	case game.OutcomeAccepted, game.OutcomeMatched, game.OutcomeWon:
		s.recordProgress(r.Context(), snap)
	}
	if finished {
		s.recordFinish(r.Context(), snap)
		s.daily.finish(r.Context(), snap, elapsed)
		log.Info().Str("gameId", snap.ID).Str("state", string(snap.State)).
			Int("moves", snap.Moves).Dur("elapsed", elapsed).Msg("game finished")
	}

	writeJSON(w, http.StatusOK, selectRes{Outcome: out, Game: snap})
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GameID string `json:"gameId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if s.daily.isDaily(req.GameID) {
		writeError(w, http.StatusConflict, "daily_no_restart")
		return
	}

	var (
		ng      *game.Session
		oldSnap game.Snapshot
		wasLive bool
	)
	err := s.store.With(r.Context(), req.GameID, func(g *game.Session) error {
		oldSnap, wasLive = g.Snapshot(), !g.State.Terminal()
		var err error
		ng, err = g.Restart()
		return err
	})
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("restart game")
		writeError(w, http.StatusInternalServerError, "restart_failed")
		return
	}

	_ = s.store.Delete(r.Context(), req.GameID)
	if err := s.store.Save(r.Context(), ng); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	if wasLive {
		s.recordAbandoned(r.Context(), oldSnap)
	}
	s.recordGame(w, r, ng, modeNormal)
	log.Debug().Str("from", req.GameID).Str("gameId", ng.ID).
		Int("tiles", ng.Options().Field.Count).Msg("game restarted")

	writeJSON(w, http.StatusOK, gameRes{GameID: ng.ID, Game: ng.Snapshot()})
}

// ------------------------------ persistence --------------------------------

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// recordGame inserts the owner row for a new session.
func (s *Server) recordGame(w http.ResponseWriter, r *http.Request, g *game.Session, mode string) {
	var userID, anon string
	if id, user := s.playerID(w, r); user {
		userID = id
	} else {
		anon = id
	}
	_, err := s.db.ExecContext(r.Context(),
		`INSERT INTO games (id, user_id, anonymous_id, mode, seed, started_at, status)
		 VALUES (?,?,?,?,?,?,?)`,
		g.ID, nullable(userID), nullable(anon), mode, strconv.FormatUint(g.Seed, 10),
		g.StartedAt.Format(time.RFC3339), string(g.State))
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}
}

func (s *Server) recordProgress(ctx context.Context, snap game.Snapshot) {
	if _, err := s.db.ExecContext(ctx, `UPDATE games SET moves=?, matches=? WHERE id=?`,
		snap.Moves, snap.Matches, snap.ID); err != nil {
		log.Warn().Err(err).Str("gameId", snap.ID).Msg("update moves")
	}
}

// recordFinish stores the final status and bumps the owner's stats.
func (s *Server) recordFinish(ctx context.Context, snap game.Snapshot) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Msg("finish game: begin")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET status=?, finished_at=? WHERE id=?`,
		string(snap.State), time.Now().UTC().Format(time.RFC3339), snap.ID); err != nil {
		log.Warn().Err(err).Msg("finish game")
		return
	}
	var userID *string
	if err := tx.QueryRow(`SELECT user_id FROM games WHERE id=?`, snap.ID).Scan(&userID); err != nil {
		log.Warn().Err(err).Str("gameId", snap.ID).Msg("game owner")
		return
	}
	if userID != nil {
		if err := bumpStats(tx, *userID, snap.State == game.StateWon); err != nil {
			log.Warn().Err(err).Str("user", *userID).Msg("bump stats")
			return
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("finish game: commit")
	}
}

func (s *Server) recordAbandoned(ctx context.Context, snap game.Snapshot) {
	if _, err := s.db.ExecContext(ctx, `UPDATE games SET status='abandoned', finished_at=? WHERE id=?`,
		time.Now().UTC().Format(time.RFC3339), snap.ID); err != nil {
		log.Warn().Err(err).Str("gameId", snap.ID).Msg("abandon game")
	}
}

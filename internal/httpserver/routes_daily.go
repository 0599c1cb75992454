// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes three endpoints under /daily:
//   - POST /daily/new         → start today's field (creates or reuses session)
//   - POST /daily/select      → select a tile in today's session
//   - GET  /daily/leaderboard → fastest winners for today (or ?date=YYYY-MM-DD)
//
// Every player gets the same field on a given UTC date. Each player can
// finish once per day (enforced by the daily_results primary key); a blocked
// field counts as a finished attempt.

package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/triplosion/internal/daily"
	"github.com/robalobadob/triplosion/internal/game"
)

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv   *Server
	store *daily.Store
	salt  string
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]string      // playerID|date → game ID
	games    map[string]dailyPlayer // game ID → owner
}

type dailyPlayer struct {
	PlayerID string
	Date     string
	Seed     uint64
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	s.daily = &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		now:      time.Now,
		sessions: make(map[string]string),
		games:    make(map[string]dailyPlayer),
	}
	d := s.daily
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", d.handleNew)
		r.Post("/select", d.handleSelect)
		r.Get("/leaderboard", d.handleLeaderboard)
	})
}

// today returns today's date key and field seed.
func (d *dailyServer) today() (string, uint64) {
	now := d.now()
	return daily.DateKey(now), daily.Seed(now, d.salt)
}

func (d *dailyServer) isDaily(gameID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.games[gameID]
	return ok
}

func (d *dailyServer) forget(gameID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.games[gameID]; ok {
		delete(d.sessions, p.PlayerID+"|"+p.Date)
		delete(d.games, gameID)
	}
}

// sweep forgets daily sessions that are no longer live in the store or that
// belong to an earlier date, and reports how many were dropped.
func (d *dailyServer) sweep(ctx context.Context) int {
	today, _ := d.today()
	d.mu.Lock()
	ids := make([]string, 0, len(d.games))
	stale := make([]string, 0)
	for id, p := range d.games {
		if p.Date != today {
			stale = append(stale, id)
		} else {
			ids = append(ids, id)
		}
	}
	d.mu.Unlock()

	for _, id := range ids {
		if err := d.srv.store.With(ctx, id, func(*game.Session) error { return nil }); err != nil {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		d.forget(id)
		_ = d.srv.store.Delete(ctx, id)
	}
	return len(stale)
}

// -----------------------------------------------------------------------------
// /daily/new

type dailyNewRes struct {
	GameID string         `json:"gameId,omitempty"`
	Date   string         `json:"date"`
	Played bool           `json:"played"`
	Game   *game.Snapshot `json:"game,omitempty"`
}

// handleNew creates or reuses a daily session for the current date.
//   - If the player already has a result for today → Played=true.
//   - Otherwise reuse the live session, or start one from today's seed.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	pid, _ := d.srv.playerID(w, r)
	date, seed := d.today()

	played, err := d.store.AlreadyPlayed(r.Context(), pid, date)
	if err != nil {
		log.Error().Err(err).Msg("daily already played")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	if played {
		writeJSON(w, http.StatusOK, dailyNewRes{Date: date, Played: true})
		return
	}

	key := pid + "|" + date
	d.mu.Lock()
	id, ok := d.sessions[key]
	d.mu.Unlock()
	if ok {
		var snap game.Snapshot
		err := d.srv.store.With(r.Context(), id, func(g *game.Session) error {
			snap = g.Snapshot()
			return nil
		})
		if err == nil {
			writeJSON(w, http.StatusOK, dailyNewRes{GameID: id, Date: date, Game: &snap})
			return
		}
		// Pruned from the store; start over.
		d.forget(id)
	}

	opts := d.srv.opts
	opts.Seed = seed
	g, err := game.New(opts)
	if err != nil {
		log.Error().Err(err).Msg("new daily game")
		writeError(w, http.StatusInternalServerError, "new_game_failed")
		return
	}
	if err := d.srv.store.Save(r.Context(), g); err != nil {
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	d.mu.Lock()
	d.sessions[key] = g.ID
	d.games[g.ID] = dailyPlayer{PlayerID: pid, Date: date, Seed: seed}
	d.mu.Unlock()
	d.srv.recordGame(w, r, g, modeDaily)

	snap := g.Snapshot()
	writeJSON(w, http.StatusOK, dailyNewRes{GameID: g.ID, Date: date, Game: &snap})
}

// -----------------------------------------------------------------------------
// /daily/select

// handleSelect accepts selections only for live daily sessions.
func (d *dailyServer) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if !d.isDaily(req.GameID) {
		writeError(w, http.StatusConflict, "no_session")
		return
	}
	d.srv.play(w, r, req)
}

// finish records the result of a daily session that just ended. Other
// sessions are ignored.
func (d *dailyServer) finish(ctx context.Context, snap game.Snapshot, elapsed time.Duration) {
	d.mu.Lock()
	p, ok := d.games[snap.ID]
	d.mu.Unlock()
	if !ok {
		return
	}
	err := d.store.InsertResult(ctx, daily.Result{
		PlayerID:  p.PlayerID,
		Date:      p.Date,
		Seed:      p.Seed,
		Moves:     snap.Moves,
		ElapsedMs: elapsed.Milliseconds(),
		Won:       snap.State == game.StateWon,
	})
	if err != nil {
		log.Warn().Err(err).Str("player", p.PlayerID).Msg("insert daily result")
	}
	d.forget(snap.ID)
	_ = d.srv.store.Delete(ctx, snap.ID)
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date, _ = d.today()
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = n
	}
	rows, err := d.store.Leaderboard(r.Context(), date, limit)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}

package main

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/triplosion/internal/config"
	"github.com/robalobadob/triplosion/internal/database"
	"github.com/robalobadob/triplosion/internal/httpserver"
	"github.com/robalobadob/triplosion/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	opts, err := cfg.GameOptions()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load palette")
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DBPath).Msg("open database")
	}
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	srv := httpserver.New(store.NewMemoryStore(), db, cfg, opts)
	go pruneSessions(context.Background(), srv, cfg.SessionTTL)

	log.Info().
		Str("port", cfg.Port).
		Int("tiles", opts.Field.Count).
		Int("colors", opts.Palette.Len()).
		Str("overlap", string(cfg.OverlapMode)).
		Msg("starting triplosion server")
	if err := srv.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// pruneSessions drops abandoned sessions older than ttl.
func pruneSessions(ctx context.Context, srv *httpserver.Server, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	t := time.NewTicker(ttl / 4)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := srv.PruneSessions(ctx, now.Add(-ttl)); n > 0 {
				log.Info().Int("sessions", n).Msg("pruned stale sessions")
			}
		}
	}
}

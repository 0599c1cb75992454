// internal/config/config.go
//
// Runtime configuration, read from the environment (optionally seeded from a
// .env file in development).
//
// Environment variables (defaults in parentheses):
//   PORT (5175), LOG_LEVEL (info), DB_PATH (./data/triplosion.db),
//   JWT_SECRET (dev_secret_change_me), JWT_EXPIRES_DAYS (14),
//   COOKIE_NAME (triplosion_token), CLIENT_ORIGIN (http://localhost:5173),
//   NODE_ENV, DAILY_SALT (local_dev_salt), PALETTE_FILE,
//   TILE_TRIPLES (12), TILE_WIDTH (50), FIELD_DENSE (150),
//   ROW_CAPACITY (6), OVERLAP_MODE (area), RECOVERY_MODE (corners),
//   SESSION_TTL (6h).

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/robalobadob/triplosion/internal/field"
	"github.com/robalobadob/triplosion/internal/game"
	"github.com/robalobadob/triplosion/internal/geom"
	"github.com/robalobadob/triplosion/internal/palette"
	"github.com/robalobadob/triplosion/internal/row"
)

// Config is the server configuration.
type Config struct {
	Port           string
	LogLevel       string
	DBPath         string
	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Production     bool
	DailySalt      string
	SessionTTL     time.Duration

	PaletteFile string
	TileTriples int
	TileWidth   float64
	Dense       float64
	RowCapacity int
	OverlapMode geom.OverlapMode
	Recovery    field.Recovery
}

// Load reads .env (if present) and then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() (Config, error) {
	c := Config{
		Port:         envStr("PORT", "5175"),
		LogLevel:     envStr("LOG_LEVEL", "info"),
		DBPath:       envStr("DB_PATH", "./data/triplosion.db"),
		JWTSecret:    envStr("JWT_SECRET", "dev_secret_change_me"),
		CookieName:   envStr("COOKIE_NAME", "triplosion_token"),
		ClientOrigin: envStr("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:   os.Getenv("NODE_ENV") == "production",
		DailySalt:    envStr("DAILY_SALT", "local_dev_salt"),
		PaletteFile:  os.Getenv("PALETTE_FILE"),
	}

	var err error
	if c.JWTExpiresDays, err = envInt("JWT_EXPIRES_DAYS", 14); err != nil {
		return c, err
	}
	if c.TileTriples, err = envInt("TILE_TRIPLES", 12); err != nil {
		return c, err
	}
	if c.RowCapacity, err = envInt("ROW_CAPACITY", row.DefaultCapacity); err != nil {
		return c, err
	}
	if c.TileWidth, err = envFloat("TILE_WIDTH", 50); err != nil {
		return c, err
	}
	if c.Dense, err = envFloat("FIELD_DENSE", 150); err != nil {
		return c, err
	}
	if c.SessionTTL, err = envDuration("SESSION_TTL", 6*time.Hour); err != nil {
		return c, err
	}
	if c.OverlapMode, err = geom.ParseOverlapMode(os.Getenv("OVERLAP_MODE")); err != nil {
		return c, err
	}
	if c.Recovery, err = field.ParseRecovery(os.Getenv("RECOVERY_MODE")); err != nil {
		return c, err
	}
	if c.Production && c.JWTSecret == "dev_secret_change_me" {
		return c, fmt.Errorf("config: JWT_SECRET must be set in production")
	}
	return c, nil
}

// GameOptions builds session options from the config. The palette file, if
// any, is read here.
func (c Config) GameOptions() (game.Options, error) {
	pal, err := palette.Load(c.PaletteFile)
	if err != nil {
		return game.Options{}, err
	}
	opts := game.DefaultOptions()
	opts.Palette = pal
	opts.Capacity = c.RowCapacity
	opts.Field = field.Config{
		Count:   c.TileTriples * 3,
		Width:   c.TileWidth,
		Min:     -c.Dense,
		Max:     c.Dense,
		Overlap: c.OverlapMode.Func(),
		Window:  2 * c.TileWidth,
		Recover: c.Recovery,
	}
	return opts, nil
}

// envStr returns the value of k or def if unset/empty.
func envStr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", k, err)
	}
	return n, nil
}

func envFloat(k string, def float64) (float64, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", k, err)
	}
	return n, nil
}

func envDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", k, err)
	}
	return d, nil
}

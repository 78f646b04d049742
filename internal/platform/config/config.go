// Package config loads process configuration from SOLOVILLE_* environment
// variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	DBDSN              string        `env:"DB_DSN"`
	Store              string        `env:"STORE" envDefault:"postgres"`
	HTTPAddr           string        `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat          string        `env:"LOG_FORMAT" envDefault:"text"`
	LuckScheme         string        `env:"LUCK_SCHEME" envDefault:"range"`
	MaxConflictRetries int           `env:"MAX_CONFLICT_RETRIES" envDefault:"3"`
	WellWindow         time.Duration `env:"WELL_WINDOW" envDefault:"24h"`
	StartingEnergy     int           `env:"STARTING_ENERGY" envDefault:"20"`
	CatalogPath        string        `env:"CATALOG_PATH" envDefault:"configs/catalog.yaml"`
	MigrationsDir      string        `env:"MIGRATIONS_DIR"`
	RateLimitPerSecond float64       `env:"RATE_LIMIT_PER_SECOND" envDefault:"2"`
	RateLimitBurst     int           `env:"RATE_LIMIT_BURST" envDefault:"4"`
	RandomSeed         uint64        `env:"RANDOM_SEED"`
	CORSAllowOrigin    string        `env:"CORS_ALLOW_ORIGIN" envDefault:"*"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "SOLOVILLE_"}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Store = strings.ToLower(strings.TrimSpace(cfg.Store))
	cfg.LuckScheme = strings.ToLower(strings.TrimSpace(cfg.LuckScheme))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store {
	case StorePostgres:
		if strings.TrimSpace(c.DBDSN) == "" {
			return fmt.Errorf("SOLOVILLE_DB_DSN is required when SOLOVILLE_STORE=%s", StorePostgres)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q", c.Store)
	}
	switch c.LuckScheme {
	case "range", "weighted":
	default:
		return fmt.Errorf("unknown luck scheme %q", c.LuckScheme)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.MaxConflictRetries < 0 {
		return fmt.Errorf("max conflict retries must be >= 0, got %d", c.MaxConflictRetries)
	}
	if c.WellWindow <= 0 {
		return fmt.Errorf("well window must be positive, got %s", c.WellWindow)
	}
	// a citizen with no energy could never act
	if c.StartingEnergy < 1 {
		return fmt.Errorf("starting energy must be >= 1, got %d", c.StartingEnergy)
	}
	if c.RateLimitPerSecond < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit must be >= 0")
	}
	return nil
}

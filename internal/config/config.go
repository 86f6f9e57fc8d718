// Package config loads server settings from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/mcoot/playerbase/internal/factory"
)

var storageTypes = []string{
	factory.StorageTypeMemory,
	factory.StorageTypeRedis,
	factory.StorageTypeSQLite,
	factory.StorageTypePostgres,
}

// Config holds the server settings
type Config struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT"      envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	StorageType string `env:"STORAGE_TYPE" envDefault:"memory"`
	RedisURL    string `env:"REDIS_URL"    envDefault:"redis://localhost:6379"`
	RedisPrefix string `env:"REDIS_PREFIX" envDefault:"roster"`
	SQLitePath  string `env:"SQLITE_PATH"  envDefault:"data/players.db"`
	PostgresDSN string `env:"POSTGRES_DSN"`

	SeedPlayers bool `env:"SEED_PLAYERS" envDefault:"false"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT"     envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT"    envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Load parses the environment and validates the result
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints env tags cannot express
func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be within 1-65535, got %d", c.Port)
	}
	if !slices.Contains(storageTypes, c.StorageType) {
		return fmt.Errorf("STORAGE_TYPE must be one of %s, got %q", strings.Join(storageTypes, ", "), c.StorageType)
	}
	if c.StorageType == factory.StorageTypePostgres && strings.TrimSpace(c.PostgresDSN) == "" {
		return fmt.Errorf("POSTGRES_DSN required when STORAGE_TYPE=postgres")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel converts LOG_LEVEL to a slog.Level
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/playerbase/internal/seed"
	"github.com/mcoot/playerbase/internal/services/player"
	"github.com/mcoot/playerbase/internal/storage"
	"github.com/mcoot/playerbase/internal/storage/memory"
	redisstorage "github.com/mcoot/playerbase/internal/storage/redis"
	"github.com/mcoot/playerbase/internal/storage/sqlstore"
)

// Storage type constants
const (
	StorageTypeMemory   = "memory"
	StorageTypeRedis    = "redis"
	StorageTypeSQLite   = "sqlite"
	StorageTypePostgres = "postgres"
)

// App contains all wired application components
type App struct {
	Storage       storage.Storage
	PlayerService *player.Service

	logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
	// PostgresDSN is the connection string (required if StorageType is "postgres")
	PostgresDSN string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store, err := newStorage(cfg)
	if err != nil {
		return nil, err
	}

	return NewWithStorage(store, logger), nil
}

func newStorage(cfg Config) (storage.Storage, error) {
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		return redisStore, nil
	case StorageTypeSQLite:
		sqliteStore, err := sqlstore.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return sqliteStore, nil
	case StorageTypePostgres:
		pgStore, err := sqlstore.OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return pgStore, nil
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be memory, redis, sqlite or postgres", storageType)
	}
}

// NewWithStorage wires the services around an existing store
func NewWithStorage(store storage.Storage, logger *slog.Logger) *App {
	return &App{
		Storage:       store,
		PlayerService: player.New(store, logger),
		logger:        logger,
	}
}

// Seed loads the demo roster if the store is empty
func (a *App) Seed(ctx context.Context) error {
	_, err := seed.Load(ctx, a.PlayerService, a.logger)
	return err
}

// Close releases the storage backend
func (a *App) Close() error {
	return a.Storage.Close()
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/devpoker/models"
)

var (
	ErrInvalidConfig    = errors.New("invalid store configuration")
	ErrInvalidStoreType = errors.New("invalid store type")
)

// Store persists sessions and games. Implementations must keep at most one
// session per (chat, session key) and treat the serialized blob as the
// source of truth on read.
type Store interface {
	// FindSession returns models.ErrNotFound when no session is stored.
	FindSession(ctx context.Context, chatID int64, sessionKey int) (*models.Session, error)

	// CreateSession assigns an ID and inserts the session.
	// Returns models.ErrAlreadyExists if the key is taken.
	CreateSession(ctx context.Context, s *models.Session) error

	// UpdateSession overwrites the stored session.
	// Returns models.ErrNotFound if it was never created.
	UpdateSession(ctx context.Context, s *models.Session) error

	// RecordResolution appends a snapshot of a resolved session.
	RecordResolution(ctx context.Context, s *models.Session) error

	CreateGame(ctx context.Context, g *models.Game) error
	FindGame(ctx context.Context, id string) (*models.Game, error)

	// FindActiveGame returns the started game of owner in chat, or models.ErrNotFound.
	FindActiveGame(ctx context.Context, chatID, ownerID int64) (*models.Game, error)

	// EndGame marks the game ended.
	EndGame(ctx context.Context, g *models.Game) error

	GameStatistics(ctx context.Context, gameID string) (models.GameStatistics, error)

	Close() error
}

// StoreType selects a Store driver.
type StoreType string

const (
	StoreTypeMemory   StoreType = "memory"
	StoreTypeSQLite   StoreType = "sqlite"
	StoreTypePostgres StoreType = "postgres"
	StoreTypeRedis    StoreType = "redis"
)

// StoreOption is a functional option for configuring a store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	db          *sql.DB
	redisClient *redis.Client
	keyPrefix   string
	now         func() time.Time
}

// WithDB sets the connection used by the sqlite and postgres drivers.
func WithDB(db *sql.DB) StoreOption {
	return func(c *storeConfig) {
		c.db = db
	}
}

// WithRedisClient sets the client used by the redis driver.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithKeyPrefix namespaces redis keys.
func WithKeyPrefix(prefix string) StoreOption {
	return func(c *storeConfig) {
		c.keyPrefix = prefix
	}
}

// WithClock overrides time.Now for row timestamps.
func WithClock(now func() time.Time) StoreOption {
	return func(c *storeConfig) {
		c.now = now
	}
}

// NewStore creates a Store for the given driver.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	cfg := &storeConfig{
		keyPrefix: "devpoker:",
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch storeType {
	case StoreTypeMemory:
		return newMemoryStore(cfg.now), nil

	case StoreTypeSQLite, StoreTypePostgres:
		if cfg.db == nil {
			return nil, ErrInvalidConfig
		}
		return newSQLStore(cfg.db, cfg.now), nil

	case StoreTypeRedis:
		if cfg.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return newRedisStore(cfg.redisClient, cfg.keyPrefix, cfg.now), nil

	default:
		return nil, ErrInvalidStoreType
	}
}

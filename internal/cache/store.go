// Package cache persists per-session values such as the bearer token and UI
// preferences, in process memory or in redis.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Store keeps small string values under string keys with a TTL.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Config selects and tunes the store backend.
type Config struct {
	Backend    string // "memory" or "redis"
	DefaultTTL time.Duration

	MaxSize         int
	CleanupInterval time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
}

// New builds the backend named by config.Backend.
func New(config Config) (Store, error) {
	switch config.Backend {
	case "", "memory":
		return NewLocalCache(&LocalCacheConfig{
			MaxSize:         config.MaxSize,
			DefaultTTL:      config.DefaultTTL,
			CleanupInterval: config.CleanupInterval,
		}), nil
	case "redis":
		return NewRedisStore(&RedisConfig{
			Addr:       config.RedisAddr,
			Password:   config.RedisPassword,
			DB:         config.RedisDB,
			KeyPrefix:  config.KeyPrefix,
			DefaultTTL: config.DefaultTTL,
		})
	default:
		return nil, fmt.Errorf("unknown session store backend %q", config.Backend)
	}
}

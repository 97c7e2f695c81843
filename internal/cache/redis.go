package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gotrs-io/gotrs-console/internal/metrics"
)

// RedisConfig defines the redis connection of the session store.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	KeyPrefix  string
	DefaultTTL time.Duration

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RedisStore keeps session values in redis so several console replicas can
// share sessions.
type RedisStore struct {
	client     *redis.Client
	keyPrefix  string
	defaultTTL time.Duration
}

// NewRedisStore connects and pings redis.
func NewRedisStore(config *RedisConfig) (*RedisStore, error) {
	if config.Addr == "" {
		config.Addr = "localhost:6379"
	}
	if config.KeyPrefix == "" {
		config.KeyPrefix = "console:"
	}
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 24 * time.Hour
	}
	if config.DialTimeout <= 0 {
		config.DialTimeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisStore{
		client:     client,
		keyPrefix:  config.KeyPrefix,
		defaultTTL: config.DefaultTTL,
	}, nil
}

// Get retrieves a value from Redis
func (rs *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := rs.client.Get(ctx, rs.keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		metrics.StoreOp("redis", "get", nil)
		return "", false, nil
	}
	metrics.StoreOp("redis", "get", err)
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores a value in Redis
func (rs *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = rs.defaultTTL
	}
	err := rs.client.Set(ctx, rs.keyPrefix+key, value, ttl).Err()
	metrics.StoreOp("redis", "set", err)
	return err
}

// Delete removes a value from Redis
func (rs *RedisStore) Delete(ctx context.Context, key string) error {
	err := rs.client.Del(ctx, rs.keyPrefix+key).Err()
	metrics.StoreOp("redis", "delete", err)
	return err
}

// Close releases the connection pool.
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

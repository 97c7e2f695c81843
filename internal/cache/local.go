package cache

import (
	"context"
	"sync"
	"time"

	"github.com/gotrs-io/gotrs-console/internal/metrics"
)

// LocalCacheConfig tunes the in-memory store.
type LocalCacheConfig struct {
	MaxSize         int
	DefaultTTL      time.Duration
	CleanupInterval time.Duration
}

// LocalCache provides an in-memory store with TTL support
type LocalCache struct {
	mu      sync.Mutex
	items   map[string]*LocalCacheItem
	maxSize int
	stats   *LocalCacheStats
	stopCh  chan struct{}
	once    sync.Once
	config  *LocalCacheConfig
	now     func() time.Time
}

// LocalCacheItem represents a cached item
type LocalCacheItem struct {
	Value      string
	ExpiresAt  time.Time
	AccessedAt time.Time
}

// LocalCacheStats tracks local cache statistics
type LocalCacheStats struct {
	Hits      int64
	Misses    int64
	Sets      int64
	Deletes   int64
	Evictions int64
	Size      int64
}

// NewLocalCache creates a new local cache
func NewLocalCache(config *LocalCacheConfig) *LocalCache {
	if config.MaxSize <= 0 {
		config.MaxSize = 10000
	}
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 24 * time.Hour
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = time.Minute
	}

	lc := &LocalCache{
		items:   make(map[string]*LocalCacheItem),
		maxSize: config.MaxSize,
		stats:   &LocalCacheStats{},
		stopCh:  make(chan struct{}),
		config:  config,
		now:     time.Now,
	}

	go lc.cleanupLoop(config.CleanupInterval)

	return lc
}

// Get retrieves a value. Expired entries read as missing.
func (lc *LocalCache) Get(_ context.Context, key string) (string, bool, error) {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	item, exists := lc.items[key]
	if !exists || lc.now().After(item.ExpiresAt) {
		lc.stats.Misses++
		metrics.StoreOp("memory", "get", nil)
		return "", false, nil
	}

	item.AccessedAt = lc.now()
	lc.stats.Hits++
	metrics.StoreOp("memory", "get", nil)
	return item.Value, true, nil
}

// Set stores a value; a zero ttl uses the configured default.
func (lc *LocalCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if _, exists := lc.items[key]; !exists && len(lc.items) >= lc.maxSize {
		lc.evictLRU()
	}

	if ttl <= 0 {
		ttl = lc.config.DefaultTTL
	}
	now := lc.now()
	lc.items[key] = &LocalCacheItem{
		Value:      value,
		ExpiresAt:  now.Add(ttl),
		AccessedAt: now,
	}

	lc.stats.Sets++
	lc.stats.Size = int64(len(lc.items))
	metrics.StoreOp("memory", "set", nil)
	return nil
}

// Delete removes an item from local cache
func (lc *LocalCache) Delete(_ context.Context, key string) error {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	if _, exists := lc.items[key]; exists {
		delete(lc.items, key)
		lc.stats.Deletes++
		lc.stats.Size = int64(len(lc.items))
	}
	metrics.StoreOp("memory", "delete", nil)
	return nil
}

// GetStats returns cache statistics
func (lc *LocalCache) GetStats() LocalCacheStats {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	stats := *lc.stats
	stats.Size = int64(len(lc.items))
	return stats
}

// evictLRU removes the least recently used item
func (lc *LocalCache) evictLRU() {
	var oldestKey string
	var oldestTime time.Time

	for key, item := range lc.items {
		if oldestKey == "" || item.AccessedAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = item.AccessedAt
		}
	}

	if oldestKey != "" {
		delete(lc.items, oldestKey)
		lc.stats.Evictions++
	}
}

// cleanupLoop periodically removes expired items
func (lc *LocalCache) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lc.cleanup()
		case <-lc.stopCh:
			return
		}
	}
}

// cleanup removes expired items
func (lc *LocalCache) cleanup() {
	lc.mu.Lock()
	defer lc.mu.Unlock()

	now := lc.now()
	for key, item := range lc.items {
		if now.After(item.ExpiresAt) {
			delete(lc.items, key)
			lc.stats.Evictions++
		}
	}

	lc.stats.Size = int64(len(lc.items))
}

// Close stops the cleanup goroutine
func (lc *LocalCache) Close() error {
	lc.once.Do(func() { close(lc.stopCh) })
	return nil
}

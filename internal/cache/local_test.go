package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocalCache(t *testing.T, maxSize int) (*LocalCache, *time.Time) {
	t.Helper()
	lc := NewLocalCache(&LocalCacheConfig{MaxSize: maxSize, DefaultTTL: time.Hour, CleanupInterval: time.Hour})
	t.Cleanup(func() { _ = lc.Close() })
	now := time.Date(2024, 2, 8, 10, 30, 0, 0, time.UTC)
	lc.now = func() time.Time { return now }
	return lc, &now
}

func TestLocalCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set get delete", func(t *testing.T) {
		lc, _ := newTestLocalCache(t, 10)

		require.NoError(t, lc.Set(ctx, "s1:token", "abc", 0))
		v, ok, err := lc.Get(ctx, "s1:token")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "abc", v)

		require.NoError(t, lc.Delete(ctx, "s1:token"))
		_, ok, err = lc.Get(ctx, "s1:token")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("expired entries read as missing", func(t *testing.T) {
		lc, now := newTestLocalCache(t, 10)
		require.NoError(t, lc.Set(ctx, "k", "v", time.Minute))

		*now = now.Add(2 * time.Minute)
		_, ok, err := lc.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, ok)

		lc.cleanup()
		assert.Equal(t, int64(0), lc.GetStats().Size)
	})

	t.Run("evicts least recently used at capacity", func(t *testing.T) {
		lc, now := newTestLocalCache(t, 2)
		require.NoError(t, lc.Set(ctx, "a", "1", 0))
		*now = now.Add(time.Second)
		require.NoError(t, lc.Set(ctx, "b", "2", 0))
		*now = now.Add(time.Second)
		_, _, _ = lc.Get(ctx, "a")
		*now = now.Add(time.Second)
		require.NoError(t, lc.Set(ctx, "c", "3", 0))

		_, ok, _ := lc.Get(ctx, "b")
		assert.False(t, ok)
		_, ok, _ = lc.Get(ctx, "a")
		assert.True(t, ok)
		assert.Equal(t, int64(1), lc.GetStats().Evictions)
	})

	t.Run("overwrite does not evict", func(t *testing.T) {
		lc, _ := newTestLocalCache(t, 1)
		require.NoError(t, lc.Set(ctx, "a", "1", 0))
		require.NoError(t, lc.Set(ctx, "a", "2", 0))
		v, ok, _ := lc.Get(ctx, "a")
		assert.True(t, ok)
		assert.Equal(t, "2", v)
		assert.Equal(t, int64(0), lc.GetStats().Evictions)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		lc, _ := newTestLocalCache(t, 1)
		assert.NoError(t, lc.Close())
		assert.NoError(t, lc.Close())
	})
}

func TestNew(t *testing.T) {
	store, err := New(Config{Backend: "memory"})
	require.NoError(t, err)
	defer store.Close()
	assert.IsType(t, &LocalCache{}, store)

	_, err = New(Config{Backend: "memcached"})
	assert.Error(t, err)
}

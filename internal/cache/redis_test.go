package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("CONSOLE_TEST_REDIS")
	if addr == "" {
		t.Skip("CONSOLE_TEST_REDIS not set")
	}

	store, err := NewRedisStore(&RedisConfig{Addr: addr, KeyPrefix: "console-test:"})
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	key := uuid.NewString() + ":token"

	_, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, key, "abc", time.Minute))
	v, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, store.Delete(ctx, key))
	_, ok, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

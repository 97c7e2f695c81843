package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	now := time.Date(2024, 2, 8, 10, 0, 0, 0, time.UTC)
	created := 0
	r := NewRegistry(30*time.Minute, func(string) *UIStore {
		created++
		return New("zh")
	})
	r.now = func() time.Time { return now }
	var sizes []int
	r.OnSize = func(n int) { sizes = append(sizes, n) }

	a := r.Get("a")
	assert.Same(t, a, r.Get("a"))
	assert.Equal(t, 1, created)

	_, ok := r.Peek("b")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Len())

	now = now.Add(20 * time.Minute)
	r.Get("b")
	now = now.Add(20 * time.Minute)

	assert.Equal(t, 1, r.Sweep())
	_, ok = r.Peek("a")
	assert.False(t, ok)
	_, ok = r.Peek("b")
	assert.True(t, ok)

	r.Delete("b")
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, []int{1, 2, 1, 0}, sizes)
}

func TestRegistryZeroTTL(t *testing.T) {
	r := NewRegistry(0, func(string) int { return 1 })
	r.Get("a")
	assert.Equal(t, 0, r.Sweep())
	assert.Equal(t, 1, r.Len())
}

func TestSweeper(t *testing.T) {
	s := NewSweeper(nil)
	r := NewRegistry(time.Minute, func(string) int { return 1 })

	require.NoError(t, s.Register("ui", "@every 1m", r))
	assert.Error(t, s.Register("ui", "not a schedule", r))

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

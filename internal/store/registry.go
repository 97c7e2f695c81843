package store

import (
	"sync"
	"time"
)

type registryEntry[V any] struct {
	value    V
	lastSeen time.Time
}

// Registry maps session ids to per-session values and forgets sessions idle
// for longer than the TTL.
type Registry[V any] struct {
	mu      sync.Mutex
	entries map[string]*registryEntry[V]
	ttl     time.Duration
	create  func(id string) V
	now     func() time.Time

	// OnSize, when set, receives the registry size after every change.
	OnSize func(int)
}

// NewRegistry creates a registry whose missing entries are built by create.
func NewRegistry[V any](ttl time.Duration, create func(id string) V) *Registry[V] {
	return &Registry[V]{
		entries: make(map[string]*registryEntry[V]),
		ttl:     ttl,
		create:  create,
		now:     time.Now,
	}
}

// Get returns the value for id, creating it when absent, and marks the
// session as seen.
func (r *Registry[V]) Get(id string) V {
	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok {
		e = &registryEntry[V]{value: r.create(id)}
		r.entries[id] = e
	}
	e.lastSeen = r.now()
	value, size := e.value, len(r.entries)
	r.mu.Unlock()

	if !ok {
		r.reportSize(size)
	}
	return value
}

// Peek returns the value for id without creating or touching it.
func (r *Registry[V]) Peek(id string) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Delete forgets id.
func (r *Registry[V]) Delete(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	size := len(r.entries)
	r.mu.Unlock()
	r.reportSize(size)
}

// Len returns the number of live sessions.
func (r *Registry[V]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed. A zero TTL never expires anything.
func (r *Registry[V]) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for id, e := range r.entries {
		if e.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			removed++
		}
	}
	size := len(r.entries)
	r.mu.Unlock()

	if removed > 0 {
		r.reportSize(size)
	}
	return removed
}

func (r *Registry[V]) reportSize(n int) {
	if r.OnSize != nil {
		r.OnSize(n)
	}
}

// Package cache provides a generic, thread-safe, write-once-per-key memo map.
//
// It backs the scheduler's per-time-zone lookups: keys are few, values are
// immutable once computed, and entries live for the process lifetime, so
// there is no eviction. Construct one explicitly and inject it rather than
// relying on package-level state when tests need isolation.
package cache

import (
	"sync"
	"sync/atomic"
)

// Map is a generic memo map. The zero value is not usable; call New.
type Map[K comparable, V any] struct {
	mu    sync.RWMutex
	items map[K]V

	// Metrics (lock-free using atomics)
	hits   atomic.Uint64
	misses atomic.Uint64
}

// New creates an empty memo map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{items: make(map[K]V)}
}

// Get retrieves a memoized value.
func (m *Map[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	v, ok := m.items[key]
	m.mu.RUnlock()

	if ok {
		m.hits.Add(1)
	} else {
		m.misses.Add(1)
	}
	return v, ok
}

// Set stores a value. Later writes to the same key win, which is harmless
// for memoized computations: every writer computed the same value.
func (m *Map[K, V]) Set(key K, value V) {
	m.mu.Lock()
	m.items[key] = value
	m.mu.Unlock()
}

// GetOrCompute returns the memoized value for key, computing and storing it
// on first use. When compute fails nothing is stored and the error is
// returned.
func (m *Map[K, V]) GetOrCompute(key K, compute func() (V, error)) (V, error) {
	if v, ok := m.Get(key); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}
	m.Set(key, v)
	return v, nil
}

// Len returns the number of memoized entries.
func (m *Map[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Stats returns hit/miss counters.
func (m *Map[K, V]) Stats() (hits, misses uint64) {
	return m.hits.Load(), m.misses.Load()
}

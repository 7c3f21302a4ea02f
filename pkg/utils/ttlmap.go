package utils

import (
	"sync"
	"time"
)

type ttlEntry[V any] struct {
	value    V
	deadline time.Time
}

// TTLMap provides a thread-safe map whose entries expire after a fixed TTL.
// Expired entries are swept by a background goroutine that lives for the
// lifetime of the map.
type TTLMap[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]ttlEntry[V]
	ttl     time.Duration
}

// NewTTLMap creates a new TTLMap with the specified TTL duration.
func NewTTLMap[K comparable, V any](ttl time.Duration) *TTLMap[K, V] {
	m := &TTLMap[K, V]{
		entries: make(map[K]ttlEntry[V]),
		ttl:     ttl,
	}

	go m.sweep()

	return m
}

// Get retrieves a value from the map.
// Returns the value and whether it exists and has not expired.
func (m *TTLMap[K, V]) Get(key K) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, exists := m.entries[key]
	if !exists || time.Now().After(entry.deadline) {
		var zero V
		return zero, false
	}

	return entry.value, true
}

// Set adds or updates a value in the map, resetting its expiry.
func (m *TTLMap[K, V]) Set(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = ttlEntry[V]{
		value:    value,
		deadline: time.Now().Add(m.ttl),
	}
}

// Delete removes a key from the map.
func (m *TTLMap[K, V]) Delete(key K) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
}

// Len returns the number of live entries.
func (m *TTLMap[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := time.Now()
	count := 0

	for _, entry := range m.entries {
		if now.Before(entry.deadline) {
			count++
		}
	}

	return count
}

// sweep periodically removes expired entries.
func (m *TTLMap[K, V]) sweep() {
	ticker := time.NewTicker(m.ttl)
	defer ticker.Stop()

	for range ticker.C {
		m.mu.Lock()

		now := time.Now()
		for key, entry := range m.entries {
			if now.After(entry.deadline) {
				delete(m.entries, key)
			}
		}

		m.mu.Unlock()
	}
}

// Package cache provides a small snapshot cache used in front of the
// list queries. It holds the last-read value plus the time it was
// stored, expires after a fixed TTL, and is invalidated explicitly
// after any write to the corresponding entity set.
package cache

import (
	"sync"
	"time"
)

// Snapshot is a single-value cache with a time-to-live.
type Snapshot[T any] struct {
	mu       sync.Mutex
	ttl      time.Duration
	value    T
	storedAt time.Time
	valid    bool

	// now is swappable for tests
	now func() time.Time
}

func NewSnapshot[T any](ttl time.Duration) *Snapshot[T] {
	return &Snapshot[T]{ttl: ttl, now: time.Now}
}

// Get returns the cached value if it is present and fresh.
func (s *Snapshot[T]) Get() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	if !s.valid {
		return zero, false
	}
	if s.now().Sub(s.storedAt) > s.ttl {
		s.valid = false
		s.value = zero
		return zero, false
	}
	return s.value, true
}

// Set stores a fresh snapshot.
func (s *Snapshot[T]) Set(value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
	s.storedAt = s.now()
	s.valid = true
}

// Invalidate drops the snapshot so the next read goes to storage.
func (s *Snapshot[T]) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.value = zero
	s.valid = false
}

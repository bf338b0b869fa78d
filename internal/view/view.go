// Package view implements the shared remote-data view contract used by every
// portal page: a fetch replaces the held value in full on success, keeps the
// previous value on failure, and is discarded when the view's key inputs
// changed while the fetch was in flight.
package view

import "sync"

// State holds one page's remote data, keyed by the inputs the fetch was
// scoped by (student id, department+level, ...). V is the full payload the
// page holds — typically a row slice, replaced wholesale on every successful
// fetch.
type State[K comparable, V any] struct {
	mu      sync.Mutex
	key     K
	keySet  bool
	value   V
	loading bool
}

// Begin marks the view loading for the given key and returns the ticket the
// eventual completion must present. Starting a fetch for a new key supersedes
// any fetch still in flight for the old one.
func (s *State[K, V]) Begin(key K) K {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = key
	s.keySet = true
	s.loading = true
	return key
}

// Complete applies a fetch result. The value is installed only when the
// ticket still matches the view's current key; a completion for a superseded
// key is discarded and the report return is false. A failed fetch (err != nil)
// clears the loading flag but leaves the previously held value in place.
func (s *State[K, V]) Complete(ticket K, value V, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.keySet || ticket != s.key {
		return false
	}

	s.loading = false
	if err != nil {
		return true
	}
	s.value = value
	return true
}

// Value returns the currently held payload.
func (s *State[K, V]) Value() V {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Loading reports whether a fetch for the current key is still in flight.
func (s *State[K, V]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Reset drops the held payload and key, returning the view to its mount
// state. Used when the session subject goes away.
func (s *State[K, V]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero V
	var zeroKey K
	s.value = zero
	s.key = zeroKey
	s.keySet = false
	s.loading = false
}

// AudienceKey scopes fetches shared by every student of one cohort.
type AudienceKey struct {
	Department string
	Level      int
}

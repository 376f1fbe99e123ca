package app

import (
	"context"
	"sync"
)

// Slot holds the latest result of a screen load. Loads may overlap (pull to
// refresh while the first load is still running); only the most recently
// started load is allowed to store its result, so a slow earlier response
// cannot overwrite a newer one.
type Slot[T any] struct {
	mu       sync.Mutex
	gen      uint64
	inFlight uint64 // generation currently loading, 0 when idle
	value    T
	err      error
	loaded   bool
}

// Load runs fetch and returns its own result to the caller.
func (s *Slot[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) (T, error) {
	s.mu.Lock()
	s.gen++
	mine := s.gen
	s.inFlight = mine
	s.mu.Unlock()

	v, err := fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if mine == s.gen {
		s.inFlight = 0
		if err == nil {
			s.value = v
			s.loaded = true
		}
		s.err = err
	}
	return v, err
}

// Value returns the stored result and whether any load has succeeded.
func (s *Slot[T]) Value() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.loaded
}

// Err returns the error of the latest completed load, if it failed.
func (s *Slot[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Loading reports whether the latest load is still running.
func (s *Slot[T]) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight != 0
}

// Reset forgets the stored result, e.g. on logout.
func (s *Slot[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	s.gen++
	s.inFlight = 0
	s.value = zero
	s.err = nil
	s.loaded = false
}

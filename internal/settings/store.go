package settings

import "sync/atomic"

// Store holds the process-wide OCR settings as an immutable snapshot that is
// replaced atomically on update. Readers never see a partially applied patch.
type Store struct {
	current atomic.Pointer[Settings]
}

// NewStore creates a store seeded with initial.
func NewStore(initial Settings) *Store {
	s := &Store{}
	s.current.Store(&initial)
	return s
}

// Get returns the current snapshot.
func (s *Store) Get() Settings {
	return *s.current.Load()
}

// Update merges p into the current snapshot and returns the result.
// Concurrent updates are serialized by compare-and-swap; the last writer wins
// field by field.
func (s *Store) Update(p Patch) Settings {
	for {
		prev := s.current.Load()
		next := p.Apply(*prev)
		if s.current.CompareAndSwap(prev, &next) {
			return next
		}
	}
}

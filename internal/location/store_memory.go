package location

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for unit tests and local development.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int64
	rows   []Location
}

// NewMemory constructs an empty in-memory location store.
func NewMemory() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Insert(_ context.Context, loc *Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	loc.ID = s.nextID
	s.nextID++
	if loc.TS.IsZero() {
		loc.TS = time.Now()
	}
	s.rows = append(s.rows, *loc)
	return nil
}

// All returns a copy of every stored location, in insertion order.
func (s *MemoryStore) All() []Location {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Location, len(s.rows))
	copy(out, s.rows)
	return out
}

var _ Store = (*MemoryStore)(nil)

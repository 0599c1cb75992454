// internal/store/memory.go
//
// In-memory implementation of the Store interface for live sessions.
//
// Characteristics:
//   - Stores *game.Session values keyed by ID in a map.
//   - Map access is guarded by an RWMutex; each entry carries its own mutex so
//     turns on one session are serialized while other sessions proceed.
//   - State is lost when the process restarts (sessions are never resumed).
//   - Missing IDs yield ErrNotFound.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/triplosion/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("store: session not found")

// Store defines the persistence interface for live sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *game.Session) error

	// With runs fn with exclusive access to the session with the given ID.
	// fn's error is returned unchanged.
	With(ctx context.Context, id string, fn func(*game.Session) error) error

	// Delete forgets a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Prune drops sessions started before cutoff and reports how many.
	Prune(ctx context.Context, cutoff time.Time) int
}

type entry struct {
	mu sync.Mutex
	s  *game.Session
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex      // guards sessions map
	sessions map[string]*entry // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*entry)}
}

func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = &entry{s: s}
	return nil
}

func (m *memory) With(ctx context.Context, id string, fn func(*game.Session) error) error {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.s)
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Prune(ctx context.Context, cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if e.s.StartedAt.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

package session

import (
	"context"
	"sync"

	"github.com/hupe1980/dialogmesh/core"
)

// InMemoryStore is a volatile SessionStore implementation storing histories
// in a process local map. It is safe for concurrent access. Histories are
// copied on Load and Save to prevent external mutation of internal state.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]core.Message
}

var _ core.SessionStore = (*InMemoryStore)(nil)

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string][]core.Message)}
}

// Load returns a copy of the stored history.
func (s *InMemoryStore) Load(_ context.Context, sessionID string) ([]core.Message, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history, ok := s.sessions[sessionID]
	if !ok {
		return nil, false, nil
	}
	return core.CloneHistory(history), true, nil
}

// Save replaces the stored history with a copy of history.
func (s *InMemoryStore) Save(_ context.Context, sessionID string, history []core.Message) error {
	cp := core.CloneHistory(history)
	if cp == nil {
		cp = []core.Message{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = cp
	return nil
}

// Delete drops a session. Unknown ids are ignored.
func (s *InMemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// Len returns the number of stored sessions.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

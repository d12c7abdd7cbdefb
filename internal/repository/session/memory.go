package session

import (
	"context"
	"sync"

	"github.com/atlant-labs/prodex/internal/domain"
)

// MemoryStore keeps session history in process memory. Used when Redis is
// not configured; history does not survive a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]domain.Turn
}

// NewMemory creates an in-memory session store.
func NewMemory() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]domain.Turn)}
}

// Load returns the stored turns for a session, or an empty slice for an
// unknown session.
func (m *MemoryStore) Load(_ context.Context, sessionID string) ([]domain.Turn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	turns, ok := m.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	out := make([]domain.Turn, len(turns))
	copy(out, turns)
	return out, nil
}

// Save replaces the stored turns for a session.
func (m *MemoryStore) Save(_ context.Context, sessionID string, turns []domain.Turn) error {
	cp := make([]domain.Turn, len(turns))
	copy(cp, turns)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sessionID] = cp
	return nil
}

// Delete removes a session. Deleting an unknown session is a no-op.
func (m *MemoryStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

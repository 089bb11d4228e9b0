package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process. Used when no Redis address is configured.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]Session{}}
}

func (m *MemoryStore) Get(_ context.Context, id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

// Put stores s and drops every session already expired at the time of the
// write. The write time is derived from s.ExpiresAt and ttl so eviction
// follows the manager's clock.
func (m *MemoryStore) Put(_ context.Context, s Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ttl <= 0 {
		delete(m.sessions, s.ID)
		return nil
	}
	now := s.ExpiresAt.Add(-ttl)
	for id, existing := range m.sessions {
		if !now.Before(existing.ExpiresAt) {
			delete(m.sessions, id)
		}
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

package session

import (
	"context"
	"sync"

	"housematch/internal/model"
)

// MemoryStore keeps sessions in an in-process map. Sessions are copied
// on the way in and out so readers never observe a half-written record.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.ConversationSession
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*model.ConversationSession)}
}

// Get implements Store. Returns (nil, nil) when the session is absent.
func (s *MemoryStore) Get(ctx context.Context, id string) (*model.ConversationSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	return sess.Clone(), nil
}

// Put implements Store.
func (s *MemoryStore) Put(ctx context.Context, sess *model.ConversationSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.ID] = sess.Clone()
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = nil
	return nil
}

package session

import (
	"context"
	"sync"

	"housematch/internal/model"
)

// Store persists conversation sessions keyed by session ID.
// Get returns (nil, nil) when the session does not exist; mapping that
// to a caller-visible signal is the conversation layer's job.
type Store interface {
	Get(ctx context.Context, id string) (*model.ConversationSession, error)
	Put(ctx context.Context, sess *model.ConversationSession) error
	Delete(ctx context.Context, id string) error
	// List returns the IDs of all live sessions, for the idle reaper.
	List(ctx context.Context) ([]string, error)
	Close() error
}

// KeyedLock serializes access per session ID without blocking unrelated
// keys. TryAcquire fails immediately when the key is held, which is how
// a concurrent advance turns into a "session busy" signal instead of an
// interleaved profile merge.
type KeyedLock struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewKeyedLock creates an empty keyed lock.
func NewKeyedLock() *KeyedLock {
	return &KeyedLock{held: make(map[string]struct{})}
}

// TryAcquire takes the lock for id, reporting false if already held.
func (l *KeyedLock) TryAcquire(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.held[id]; ok {
		return false
	}
	l.held[id] = struct{}{}
	return true
}

// Release frees the lock for id.
func (l *KeyedLock) Release(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.held, id)
}

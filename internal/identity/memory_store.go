package identity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memorySession struct {
	identity  Identity
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Expired entries are dropped lazily on lookup.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memorySession
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memorySession),
	}
}

// Create issues a new token for id.
func (s *MemoryStore) Create(_ context.Context, id Identity) (string, error) {
	token := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = memorySession{identity: id, expiresAt: s.now().Add(s.ttl)}
	return token, nil
}

// Get loads the identity for token.
func (s *MemoryStore) Get(_ context.Context, token string) (Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return Identity{}, ErrSessionNotFound
	}
	if !s.now().Before(session.expiresAt) {
		delete(s.sessions, token)
		return Identity{}, ErrSessionNotFound
	}
	return session.identity, nil
}

// Delete removes the session.
func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

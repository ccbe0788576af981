package cache

import (
	"context"
	"errors"
	"sync"

	"github.com/ntwoods/dealerdocs/internal/domain/session"
)

// MemorySessionStore keeps sessions in process memory. Sessions are lost on
// restart; it is used when Redis is disabled and in tests.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session.Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]session.Session)}
}

func (s *MemorySessionStore) Load(_ context.Context, scope string) (*session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[scope]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *MemorySessionStore) Save(_ context.Context, scope string, sess *session.Session) error {
	if scope == "" {
		return errors.New("session scope cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess == nil {
		delete(s.sessions, scope)
		return nil
	}
	s.sessions[scope] = *sess
	return nil
}

func (s *MemorySessionStore) Clear(_ context.Context, scope string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, scope)
	return nil
}

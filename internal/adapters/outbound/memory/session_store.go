// Package memory holds in-process adapters backed by plain maps.
package memory

import (
	"context"
	"sync"

	"github.com/cleitonmarx/symbiont-mcp-chat/internal/domain"
	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
)

// SessionStore is an in-memory domain.SessionRepository. Sessions are
// process-local state; nothing about them survives a restart.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*domain.Session
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: map[uuid.UUID]*domain.Session{}}
}

// Add stores a session, replacing any session with the same ID.
func (s *SessionStore) Add(session *domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
}

// Get returns the session with the given ID.
func (s *SessionStore) Get(id uuid.UUID) (*domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	return session, ok
}

// Remove deletes and returns the session with the given ID.
func (s *SessionStore) Remove(id uuid.UUID) (*domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	return session, ok
}

// InitSessionStore initializes the session repository dependency.
type InitSessionStore struct{}

// Initialize registers the in-memory session repository.
func (i InitSessionStore) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.SessionRepository](NewSessionStore())
	return ctx, nil
}

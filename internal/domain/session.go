package domain

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session owns the state of one chat session: the ordered message history,
// the session-scoped tool registry and the live tool connections. Nothing
// here is shared across sessions.
//
// Turns on one session run strictly one at a time; connection attach/detach
// may happen concurrently with a turn, so connection and history access are
// guarded independently of the turn lock.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	turnMu sync.Mutex

	mu       sync.Mutex
	history  []Message
	registry ToolRegistry
	conns    map[string]ToolConnection
}

// NewSession creates a session seeded with the given messages (typically the
// system prompt).
func NewSession(id uuid.UUID, createdAt time.Time, registry ToolRegistry, seed ...Message) *Session {
	return &Session{
		ID:        id,
		CreatedAt: createdAt,
		history:   append([]Message{}, seed...),
		registry:  registry,
		conns:     make(map[string]ToolConnection),
	}
}

// BeginTurn serializes turn processing: one turn completes before the next
// begins.
func (s *Session) BeginTurn() { s.turnMu.Lock() }

// EndTurn releases the turn lock.
func (s *Session) EndTurn() { s.turnMu.Unlock() }

// AppendMessages appends messages to the conversation history. The history
// grows monotonically; it is never truncated or summarized.
func (s *Session) AppendMessages(messages ...Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, messages...)
}

// History returns a snapshot of the conversation history.
func (s *Session) History() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message{}, s.history...)
}

// Registry exposes the session-scoped tool registry.
func (s *Session) Registry() ToolRegistry {
	return s.registry
}

// AttachConnection stores the live connection and registers its tools.
// Attaching under an existing name replaces the previous registration;
// the previous live connection, if any, is returned so the caller can
// close it.
func (s *Session) AttachConnection(connectionID string, conn ToolConnection, tools []ToolDescriptor) ToolConnection {
	s.mu.Lock()
	previous := s.conns[connectionID]
	s.conns[connectionID] = conn
	s.mu.Unlock()

	s.registry.Register(connectionID, tools)
	return previous
}

// DetachConnection unregisters the connection's tools and removes the live
// connection. Detaching an unknown connection is a no-op.
func (s *Session) DetachConnection(connectionID string) ToolConnection {
	s.registry.Unregister(connectionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	conn := s.conns[connectionID]
	delete(s.conns, connectionID)
	return conn
}

// Connection implements ConnectionProvider. A registry hit does not
// guarantee a live connection: it may have been detached between
// resolution and lookup.
func (s *Session) Connection(connectionID string) (ToolConnection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn, ok := s.conns[connectionID]
	return conn, ok
}

// ConnectionIDs returns the identifiers of all live connections.
func (s *Session) ConnectionIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.conns))
	for id := range s.conns {
		ids = append(ids, id)
	}
	return ids
}

// DetachAll removes and returns every live connection, for session teardown.
func (s *Session) DetachAll() []ToolConnection {
	s.mu.Lock()
	conns := make([]ToolConnection, 0, len(s.conns))
	ids := make([]string, 0, len(s.conns))
	for id, conn := range s.conns {
		conns = append(conns, conn)
		ids = append(ids, id)
	}
	s.conns = make(map[string]ToolConnection)
	s.mu.Unlock()

	for _, id := range ids {
		s.registry.Unregister(id)
	}
	return conns
}

// SessionRepository stores live chat sessions. The scope of this service is
// in-memory state only; no durable storage backs it.
type SessionRepository interface {
	Add(session *Session)
	Get(id uuid.UUID) (*Session, bool)
	Remove(id uuid.UUID) (*Session, bool)
}

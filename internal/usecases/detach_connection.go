package usecases

import (
	"context"

	"github.com/cleitonmarx/symbiont-mcp-chat/internal/domain"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/telemetry"
	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
)

// DetachConnection defines the interface for the DetachConnection use case
type DetachConnection interface {
	// Execute disconnects a tool server from a session
	Execute(ctx context.Context, sessionID uuid.UUID, name string) error
}

// DetachConnectionImpl is the implementation of the DetachConnection use case
type DetachConnectionImpl struct {
	sessionRepo domain.SessionRepository
}

// NewDetachConnectionImpl creates a new instance of DetachConnectionImpl
func NewDetachConnectionImpl(sessionRepo domain.SessionRepository) DetachConnectionImpl {
	return DetachConnectionImpl{sessionRepo: sessionRepo}
}

// Execute unregisters the connection's tools and closes the live connection.
func (dc DetachConnectionImpl) Execute(ctx context.Context, sessionID uuid.UUID, name string) error {
	_, span := telemetry.Start(ctx)
	defer span.End()

	session, found := dc.sessionRepo.Get(sessionID)
	if !found {
		err := domain.NewNotFoundErr("session not found")
		telemetry.RecordErrorAndStatus(span, err)
		return err
	}

	conn := session.DetachConnection(name)
	if conn == nil {
		err := domain.NewNotFoundErr("connection not found")
		telemetry.RecordErrorAndStatus(span, err)
		return err
	}

	return conn.Close()
}

// InitDetachConnection is the initializer of the DetachConnection use case
type InitDetachConnection struct {
	SessionRepo domain.SessionRepository `resolve:""`
}

// Initialize registers the DetachConnection use case in the dependency container
func (i InitDetachConnection) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[DetachConnection](NewDetachConnectionImpl(i.SessionRepo))
	return ctx, nil
}

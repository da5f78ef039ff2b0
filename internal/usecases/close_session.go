package usecases

import (
	"context"

	"github.com/cleitonmarx/symbiont-mcp-chat/internal/domain"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/telemetry"
	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
)

// CloseSession defines the interface for the CloseSession use case
type CloseSession interface {
	// Execute removes a session and closes its tool connections
	Execute(ctx context.Context, sessionID uuid.UUID) error
}

// CloseSessionImpl is the implementation of the CloseSession use case
type CloseSessionImpl struct {
	sessionRepo domain.SessionRepository
}

// NewCloseSessionImpl creates a new instance of CloseSessionImpl
func NewCloseSessionImpl(sessionRepo domain.SessionRepository) CloseSessionImpl {
	return CloseSessionImpl{sessionRepo: sessionRepo}
}

// Execute removes the session from the repository and closes every live
// tool connection it holds.
func (cs CloseSessionImpl) Execute(ctx context.Context, sessionID uuid.UUID) error {
	_, span := telemetry.Start(ctx)
	defer span.End()

	session, found := cs.sessionRepo.Remove(sessionID)
	if !found {
		err := domain.NewNotFoundErr("session not found")
		telemetry.RecordErrorAndStatus(span, err)
		return err
	}

	closeConnections(session.DetachAll())
	return nil
}

// InitCloseSession is the initializer of the CloseSession use case
type InitCloseSession struct {
	SessionRepo domain.SessionRepository `resolve:""`
}

// Initialize registers the CloseSession use case in the dependency container
func (i InitCloseSession) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[CloseSession](NewCloseSessionImpl(i.SessionRepo))
	return ctx, nil
}

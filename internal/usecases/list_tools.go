package usecases

import (
	"context"

	"github.com/cleitonmarx/symbiont-mcp-chat/internal/domain"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/telemetry"
	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
)

// ListSessionTools defines the interface for the ListSessionTools use case
type ListSessionTools interface {
	// Query returns every tool currently registered on a session
	Query(ctx context.Context, sessionID uuid.UUID) ([]domain.ToolDescriptor, error)
}

// ListSessionToolsImpl is the implementation of the ListSessionTools use case
type ListSessionToolsImpl struct {
	sessionRepo domain.SessionRepository
}

// NewListSessionToolsImpl creates a new instance of ListSessionToolsImpl
func NewListSessionToolsImpl(sessionRepo domain.SessionRepository) ListSessionToolsImpl {
	return ListSessionToolsImpl{sessionRepo: sessionRepo}
}

// Query returns the session's flat tool list in registration order.
func (lt ListSessionToolsImpl) Query(ctx context.Context, sessionID uuid.UUID) ([]domain.ToolDescriptor, error) {
	_, span := telemetry.Start(ctx)
	defer span.End()

	session, found := lt.sessionRepo.Get(sessionID)
	if !found {
		err := domain.NewNotFoundErr("session not found")
		telemetry.RecordErrorAndStatus(span, err)
		return nil, err
	}

	return session.Registry().AllTools(), nil
}

// InitListSessionTools is the initializer of the ListSessionTools use case
type InitListSessionTools struct {
	SessionRepo domain.SessionRepository `resolve:""`
}

// Initialize registers the ListSessionTools use case in the dependency container
func (i InitListSessionTools) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[ListSessionTools](NewListSessionToolsImpl(i.SessionRepo))
	return ctx, nil
}

package usecases

import (
	"context"
	"strings"

	"github.com/cleitonmarx/symbiont-mcp-chat/internal/domain"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/telemetry"
	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
)

// AttachConnection defines the interface for the AttachConnection use case
type AttachConnection interface {
	// Execute connects a tool server to a session and returns its tools
	Execute(ctx context.Context, sessionID uuid.UUID, name, spec string) (ConnectionInfo, error)
}

// AttachConnectionImpl is the implementation of the AttachConnection use case
type AttachConnectionImpl struct {
	sessionRepo domain.SessionRepository
	connector   domain.ToolConnector
}

// NewAttachConnectionImpl creates a new instance of AttachConnectionImpl
func NewAttachConnectionImpl(
	sessionRepo domain.SessionRepository,
	connector domain.ToolConnector,
) AttachConnectionImpl {
	return AttachConnectionImpl{
		sessionRepo: sessionRepo,
		connector:   connector,
	}
}

// Execute dials the tool server described by spec, discovers its tools and
// registers them on the session under the given connection name. Attaching
// under a name already in use replaces that connection.
func (ac AttachConnectionImpl) Execute(ctx context.Context, sessionID uuid.UUID, name, spec string) (ConnectionInfo, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return ConnectionInfo{}, domain.NewValidationErr("connection name cannot be empty")
	}
	if strings.TrimSpace(spec) == "" {
		return ConnectionInfo{}, domain.NewValidationErr("transport specification cannot be empty")
	}

	session, found := ac.sessionRepo.Get(sessionID)
	if !found {
		err := domain.NewNotFoundErr("session not found")
		telemetry.RecordErrorAndStatus(span, err)
		return ConnectionInfo{}, err
	}

	toolList, err := attachServer(spanCtx, session, ac.connector, name, spec)
	if telemetry.RecordErrorAndStatus(span, err) {
		return ConnectionInfo{}, err
	}

	return ConnectionInfo{Name: name, Tools: toolList}, nil
}

// InitAttachConnection is the initializer of the AttachConnection use case
type InitAttachConnection struct {
	SessionRepo domain.SessionRepository `resolve:""`
	Connector   domain.ToolConnector     `resolve:""`
}

// Initialize registers the AttachConnection use case in the dependency container
func (i InitAttachConnection) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[AttachConnection](NewAttachConnectionImpl(i.SessionRepo, i.Connector))
	return ctx, nil
}

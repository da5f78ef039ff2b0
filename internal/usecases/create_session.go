package usecases

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/cleitonmarx/symbiont-mcp-chat/internal/domain"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/telemetry"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/tools"
	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"
)

//go:embed prompts/chat.yml
var chatPrompt embed.FS

// SessionInfo describes a created session and its initial connections.
type SessionInfo struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	Connections []ConnectionInfo
}

// ConnectionInfo describes one attached tool connection.
type ConnectionInfo struct {
	Name  string
	Tools []domain.ToolDescriptor
}

// CreateSession defines the interface for the CreateSession use case
type CreateSession interface {
	// Execute creates a chat session and connects the configured tool servers
	Execute(ctx context.Context) (SessionInfo, error)
}

// CreateSessionImpl is the implementation of the CreateSession use case
type CreateSessionImpl struct {
	sessionRepo    domain.SessionRepository
	connector      domain.ToolConnector
	timeProvider   domain.CurrentTimeProvider
	defaultServers []string
}

// NewCreateSessionImpl creates a new instance of CreateSessionImpl
func NewCreateSessionImpl(
	sessionRepo domain.SessionRepository,
	connector domain.ToolConnector,
	timeProvider domain.CurrentTimeProvider,
	defaultServers []string,
) CreateSessionImpl {
	return CreateSessionImpl{
		sessionRepo:    sessionRepo,
		connector:      connector,
		timeProvider:   timeProvider,
		defaultServers: defaultServers,
	}
}

// Execute creates a session seeded with the system prompt and attaches every
// configured default tool server. A server that cannot be reached fails the
// whole creation; connections already opened are closed again.
func (cs CreateSessionImpl) Execute(ctx context.Context) (SessionInfo, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	prompt, err := cs.buildSystemPrompt()
	if telemetry.RecordErrorAndStatus(span, err) {
		return SessionInfo{}, err
	}

	session := domain.NewSession(
		uuid.New(),
		cs.timeProvider.Now(),
		tools.NewConnectionToolRegistry(),
		prompt...,
	)

	info := SessionInfo{ID: session.ID, CreatedAt: session.CreatedAt}

	for _, entry := range cs.defaultServers {
		name, spec := splitServerEntry(entry)
		toolList, err := attachServer(spanCtx, session, cs.connector, name, spec)
		if telemetry.RecordErrorAndStatus(span, err) {
			closeConnections(session.DetachAll())
			return SessionInfo{}, err
		}
		info.Connections = append(info.Connections, ConnectionInfo{Name: name, Tools: toolList})
	}

	cs.sessionRepo.Add(session)
	return info, nil
}

// buildSystemPrompt loads the embedded chat prompt and injects the current date.
func (cs CreateSessionImpl) buildSystemPrompt() ([]domain.Message, error) {
	file, err := chatPrompt.Open("prompts/chat.yml")
	if err != nil {
		return nil, fmt.Errorf("failed to open chat prompt: %w", err)
	}
	defer file.Close() //nolint:errcheck

	messages := []domain.Message{}
	if err := yaml.NewDecoder(file).Decode(&messages); err != nil {
		return nil, fmt.Errorf("failed to decode chat prompt: %w", err)
	}
	for i, msg := range messages {
		if msg.Role == domain.ChatRole_System {
			messages[i].Content = fmt.Sprintf(
				msg.Content,
				cs.timeProvider.Now().Format(time.DateOnly),
			)
		}
	}
	return messages, nil
}

// attachServer opens one tool server connection, discovers its tools and
// attaches it to the session under the given name.
func attachServer(ctx context.Context, session *domain.Session, connector domain.ToolConnector, name, spec string) ([]domain.ToolDescriptor, error) {
	conn, err := connector.Open(ctx, spec)
	if err != nil {
		return nil, err
	}

	toolList, err := conn.ListTools(ctx)
	if err != nil {
		conn.Close() //nolint:errcheck
		return nil, err
	}

	for i := range toolList {
		toolList[i].Connection = name
	}
	if previous := session.AttachConnection(name, conn, toolList); previous != nil {
		previous.Close() //nolint:errcheck
	}
	return toolList, nil
}

func closeConnections(conns []domain.ToolConnection) {
	for _, conn := range conns {
		conn.Close() //nolint:errcheck
	}
}

// splitServerEntry parses one MCP_SERVERS entry of the form "name=spec".
// An entry without a name gets one derived from the spec.
func splitServerEntry(entry string) (string, string) {
	if name, spec, found := strings.Cut(entry, "="); found {
		return strings.TrimSpace(name), strings.TrimSpace(spec)
	}
	spec := strings.TrimSpace(entry)
	fields := strings.FieldsFunc(spec, func(r rune) bool {
		return r == '/' || r == ':' || r == ' '
	})
	if len(fields) > 0 {
		return fields[len(fields)-1], spec
	}
	return spec, spec
}

// InitCreateSession is the initializer of the CreateSession use case
type InitCreateSession struct {
	SessionRepo  domain.SessionRepository   `resolve:""`
	Connector    domain.ToolConnector       `resolve:""`
	TimeProvider domain.CurrentTimeProvider `resolve:""`
	// Comma-separated "name=spec" entries connected to every new session
	DefaultServers string `config:"MCP_SERVERS" default:"-"`
}

// Initialize registers the CreateSession use case in the dependency container
func (i InitCreateSession) Initialize(ctx context.Context) (context.Context, error) {
	var servers []string
	if i.DefaultServers != "-" {
		for _, entry := range strings.Split(i.DefaultServers, ",") {
			if strings.TrimSpace(entry) != "" {
				servers = append(servers, entry)
			}
		}
	}

	depend.Register[CreateSession](NewCreateSessionImpl(
		i.SessionRepo,
		i.Connector,
		i.TimeProvider,
		servers,
	))
	return ctx, nil
}

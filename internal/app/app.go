package app

import (
	"github.com/cleitonmarx/symbiont"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/adapters/inbound/http"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/adapters/outbound/log"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/adapters/outbound/mcp"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/adapters/outbound/memory"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/adapters/outbound/modelrunner"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/adapters/outbound/time"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/directory"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/telemetry"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/tools"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/usecases"
)

// NewChatBridgeApp creates the chat bridge application.
func NewChatBridgeApp(initializers ...symbiont.Initializer) *symbiont.App {
	return symbiont.NewApp().
		Initialize(initializers...).
		Initialize(
			&log.InitLogger{},
			&telemetry.InitOpenTelemetry{},
			&telemetry.InitHttpClient{},
			&time.InitCurrentTimeProvider{},
			&memory.InitSessionStore{},
			&mcp.InitToolConnector{},
			&modelrunner.InitModelGateway{},
			&tools.InitToolInvoker{},

			&usecases.InitCreateSession{},
			&usecases.InitCloseSession{},
			&usecases.InitAttachConnection{},
			&usecases.InitDetachConnection{},
			&usecases.InitListSessionTools{},
			&usecases.InitRunTurn{},
		).
		Host(
			&http.ChatBridgeServer{},
		).
		Introspect(&MermaidGraphIntrospector{})
}

// NewDirectoryApp creates the company-directory MCP server application.
func NewDirectoryApp(initializers ...symbiont.Initializer) *symbiont.App {
	return symbiont.NewApp().
		Initialize(initializers...).
		Initialize(
			&log.InitStderrLogger{},
			&telemetry.InitOpenTelemetry{},
			&time.InitCurrentTimeProvider{},
			&directory.InitDB{},
			&directory.InitStore{},
		).
		Host(
			&directory.Server{},
		).
		Introspect(&MermaidGraphIntrospector{})
}

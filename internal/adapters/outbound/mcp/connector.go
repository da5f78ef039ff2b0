package mcp

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/cleitonmarx/symbiont-mcp-chat/internal/domain"
	"github.com/cleitonmarx/symbiont/depend"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

const stdioSchemePrefix = "stdio://"

// Connector opens MCP sessions from transport specification strings:
//
//	stdio://<command> [args...]   spawn a local server process
//	sse://<url>                   SSE endpoint
//	http://..., https://...       streamable HTTP endpoint
//
// A bare command line without a scheme is treated as stdio.
type Connector struct {
	impl           *mcpsdk.Implementation
	connectTimeout time.Duration
}

// NewConnector creates a Connector identifying itself as name/version to
// the servers it dials.
func NewConnector(name, version string, connectTimeout time.Duration) *Connector {
	return &Connector{
		impl:           &mcpsdk.Implementation{Name: name, Version: version},
		connectTimeout: connectTimeout,
	}
}

// Open dials the server described by spec and performs the MCP handshake.
// The returned connection stays alive until Close; ctx only bounds the
// dial itself.
func (c *Connector) Open(ctx context.Context, spec string) (domain.ToolConnection, error) {
	transport, err := buildTransport(spec)
	if err != nil {
		return nil, err
	}

	if c.connectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.connectTimeout)
		defer cancel()
	}

	client := mcpsdk.NewClient(c.impl, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", spec, err)
	}
	return NewConnection(session), nil
}

func buildTransport(spec string) (mcpsdk.Transport, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, domain.NewValidationErr("transport specification is empty")
	}

	switch {
	case strings.HasPrefix(spec, stdioSchemePrefix):
		return buildStdioTransport(spec[len(stdioSchemePrefix):])
	case strings.HasPrefix(spec, "sse://"):
		return &mcpsdk.SSEClientTransport{Endpoint: "http://" + spec[len("sse://"):]}, nil
	case strings.HasPrefix(spec, "http://"), strings.HasPrefix(spec, "https://"):
		return &mcpsdk.StreamableClientTransport{Endpoint: spec}, nil
	}
	return buildStdioTransport(spec)
}

func buildStdioTransport(cmdSpec string) (mcpsdk.Transport, error) {
	fields := strings.Fields(cmdSpec)
	if len(fields) == 0 {
		return nil, domain.NewValidationErr("stdio transport specification has no command")
	}
	// The spawned process must outlive the dial context; its lifetime is
	// bound to the session instead.
	command := exec.CommandContext(context.Background(), fields[0], fields[1:]...)
	return &mcpsdk.CommandTransport{Command: command}, nil
}

// InitToolConnector initializes the MCP connector dependency.
type InitToolConnector struct {
	ConnectTimeout string `config:"MCP_CONNECT_TIMEOUT" default:"30s"`
}

// Initialize registers the connector.
func (i InitToolConnector) Initialize(ctx context.Context) (context.Context, error) {
	timeout, err := time.ParseDuration(i.ConnectTimeout)
	if err != nil {
		return ctx, domain.NewValidationErr("invalid MCP_CONNECT_TIMEOUT: " + i.ConnectTimeout)
	}
	depend.Register[domain.ToolConnector](NewConnector("mcpchat", "1.0.0", timeout))
	return ctx, nil
}

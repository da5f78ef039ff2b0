package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/cleitonmarx/symbiont-mcp-chat/internal/domain"
	"github.com/cleitonmarx/symbiont/depend"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupConnection wires a Connection to an in-process MCP server over
// in-memory transports.
func setupConnection(t *testing.T) *Connection {
	t.Helper()

	server := mcpsdk.NewServer(&mcpsdk.Implementation{Name: "test-server", Version: "test"}, nil)
	registerTestTools(server)

	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		session, err := server.Connect(ctx, serverTransport, nil)
		if err != nil {
			return
		}
		<-ctx.Done()
		_ = session.Close()
	}()

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	conn := NewConnection(session)
	t.Cleanup(func() {
		_ = conn.Close()
		cancel()
		<-done
	})
	return conn
}

func registerTestTools(server *mcpsdk.Server) {
	server.AddTool(&mcpsdk.Tool{
		Name:        "echo",
		Description: "Echo input",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
			},
			"required": []any{"text"},
		},
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		var payload map[string]string
		if err := json.Unmarshal(req.Params.Arguments, &payload); err != nil {
			return nil, err
		}
		return &mcpsdk.CallToolResult{
			Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: "echo:" + payload["text"]}},
		}, nil
	})

	server.AddTool(&mcpsdk.Tool{
		Name:        "multiline",
		Description: "Returns two content blocks",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		return &mcpsdk.CallToolResult{
			Content: []mcpsdk.Content{
				&mcpsdk.TextContent{Text: "first"},
				&mcpsdk.TextContent{Text: "second"},
			},
		}, nil
	})

	server.AddTool(&mcpsdk.Tool{
		Name:        "fail",
		Description: "Always reports a tool error",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
	}, func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		return &mcpsdk.CallToolResult{
			IsError: true,
			Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: "deliberate failure"}},
		}, nil
	})
}

func TestConnection_ListTools(t *testing.T) {
	conn := setupConnection(t)

	descriptors, err := conn.ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, descriptors, 3)

	byName := map[string]domain.ToolDescriptor{}
	for _, d := range descriptors {
		byName[d.Name] = d
	}

	echo, ok := byName["echo"]
	require.True(t, ok)
	assert.Equal(t, "Echo input", echo.Description)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(echo.InputSchema, &schema))
	assert.Equal(t, "object", schema["type"])
	assert.Contains(t, schema, "properties")
}

func TestConnection_CallTool(t *testing.T) {
	conn := setupConnection(t)
	ctx := context.Background()

	tests := map[string]struct {
		tool         string
		args         map[string]any
		expectedText string
		expectErr    bool
	}{
		"echo":                       {tool: "echo", args: map[string]any{"text": "hi"}, expectedText: "echo:hi"},
		"content-blocks-joined":      {tool: "multiline", expectedText: "first\nsecond"},
		"server-reported-tool-error": {tool: "fail", expectedText: "deliberate failure", expectErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			output, err := conn.CallTool(ctx, tt.tool, tt.args)

			require.NoError(t, err)
			assert.Equal(t, tt.expectedText, output.Text)
			assert.Equal(t, tt.expectErr, output.IsError)
		})
	}
}

func TestBuildTransport(t *testing.T) {
	tests := map[string]struct {
		spec      string
		expectErr bool
		validate  func(*testing.T, mcpsdk.Transport)
	}{
		"empty":         {spec: "", expectErr: true},
		"stdio-no-cmd":  {spec: "stdio://", expectErr: true},
		"blank-command": {spec: "   ", expectErr: true},
		"stdio-scheme": {
			spec: "stdio://python server.py --db test.db",
			validate: func(t *testing.T, tr mcpsdk.Transport) {
				cmd, ok := tr.(*mcpsdk.CommandTransport)
				require.True(t, ok)
				assert.Equal(t, []string{"python", "server.py", "--db", "test.db"}, cmd.Command.Args)
			},
		},
		"bare-command": {
			spec: "npx tool-server",
			validate: func(t *testing.T, tr mcpsdk.Transport) {
				_, ok := tr.(*mcpsdk.CommandTransport)
				assert.True(t, ok)
			},
		},
		"sse-scheme": {
			spec: "sse://localhost:9000/sse",
			validate: func(t *testing.T, tr mcpsdk.Transport) {
				sse, ok := tr.(*mcpsdk.SSEClientTransport)
				require.True(t, ok)
				assert.Equal(t, "http://localhost:9000/sse", sse.Endpoint)
			},
		},
		"http-scheme": {
			spec: "http://localhost:9000/mcp",
			validate: func(t *testing.T, tr mcpsdk.Transport) {
				streamable, ok := tr.(*mcpsdk.StreamableClientTransport)
				require.True(t, ok)
				assert.Equal(t, "http://localhost:9000/mcp", streamable.Endpoint)
			},
		},
		"https-scheme": {
			spec: "https://tools.example.com/mcp",
			validate: func(t *testing.T, tr mcpsdk.Transport) {
				_, ok := tr.(*mcpsdk.StreamableClientTransport)
				assert.True(t, ok)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			transport, err := buildTransport(tt.spec)

			if tt.expectErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, transport)
			}
		})
	}
}

func TestConnector_Open_InMemorySpecRejected(t *testing.T) {
	connector := NewConnector("test", "0.0.0", 0)

	_, err := connector.Open(context.Background(), "")
	assert.Error(t, err)
}

func TestInitToolConnector_Initialize(t *testing.T) {
	i := InitToolConnector{ConnectTimeout: "30s"}

	_, err := i.Initialize(context.Background())
	assert.NoError(t, err)

	r, err := depend.Resolve[domain.ToolConnector]()
	assert.NotNil(t, r)
	assert.NoError(t, err)
}

func TestInitToolConnector_Initialize_InvalidTimeout(t *testing.T) {
	i := InitToolConnector{ConnectTimeout: "soon"}

	_, err := i.Initialize(context.Background())
	assert.Error(t, err)
}

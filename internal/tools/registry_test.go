package tools

import (
	"encoding/json"
	"testing"

	"github.com/cleitonmarx/symbiont-mcp-chat/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func descriptor(name string) domain.ToolDescriptor {
	return domain.ToolDescriptor{
		Name:        name,
		Description: name + " description",
		InputSchema: json.RawMessage(`{"type":"object"}`),
	}
}

func TestConnectionToolRegistry_Resolve(t *testing.T) {
	tests := map[string]struct {
		setup        func(*ConnectionToolRegistry)
		toolName     string
		expectedConn string
		expectFound  bool
	}{
		"resolves-owning-connection": {
			setup: func(r *ConnectionToolRegistry) {
				r.Register("alpha", []domain.ToolDescriptor{descriptor("query_employees")})
				r.Register("beta", []domain.ToolDescriptor{descriptor("query_projects")})
			},
			toolName:     "query_projects",
			expectedConn: "beta",
			expectFound:  true,
		},
		"unknown-tool-not-found": {
			setup: func(r *ConnectionToolRegistry) {
				r.Register("alpha", []domain.ToolDescriptor{descriptor("query_employees")})
			},
			toolName:    "missing_tool",
			expectFound: false,
		},
		"collision-first-registered-wins": {
			setup: func(r *ConnectionToolRegistry) {
				r.Register("alpha", []domain.ToolDescriptor{descriptor("shared_tool")})
				r.Register("beta", []domain.ToolDescriptor{descriptor("shared_tool")})
			},
			toolName:     "shared_tool",
			expectedConn: "alpha",
			expectFound:  true,
		},
		"collision-winner-disconnects-loser-takes-over": {
			setup: func(r *ConnectionToolRegistry) {
				r.Register("alpha", []domain.ToolDescriptor{descriptor("shared_tool")})
				r.Register("beta", []domain.ToolDescriptor{descriptor("shared_tool")})
				r.Unregister("alpha")
			},
			toolName:     "shared_tool",
			expectedConn: "beta",
			expectFound:  true,
		},
		"reconnect-after-full-disconnect-resolves-again": {
			setup: func(r *ConnectionToolRegistry) {
				r.Register("alpha", []domain.ToolDescriptor{descriptor("shared_tool")})
				r.Register("beta", []domain.ToolDescriptor{descriptor("shared_tool")})
				r.Unregister("alpha")
				r.Unregister("beta")
				r.Register("alpha", []domain.ToolDescriptor{descriptor("shared_tool")})
			},
			toolName:     "shared_tool",
			expectedConn: "alpha",
			expectFound:  true,
		},
		"unregistered-tools-stop-resolving": {
			setup: func(r *ConnectionToolRegistry) {
				r.Register("alpha", []domain.ToolDescriptor{descriptor("query_employees")})
				r.Unregister("alpha")
			},
			toolName:    "query_employees",
			expectFound: false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			registry := NewConnectionToolRegistry()
			tt.setup(registry)

			conn, found := registry.Resolve(tt.toolName)
			assert.Equal(t, tt.expectFound, found)
			if tt.expectFound {
				assert.Equal(t, tt.expectedConn, conn)
			}
		})
	}
}

func TestConnectionToolRegistry_ResolveAfterReconnect(t *testing.T) {
	registry := NewConnectionToolRegistry()
	registry.Register("alpha", []domain.ToolDescriptor{descriptor("shared_tool")})
	registry.Register("beta", []domain.ToolDescriptor{descriptor("shared_tool")})
	registry.Unregister("alpha")

	conn, found := registry.Resolve("shared_tool")
	require.True(t, found)
	require.Equal(t, "beta", conn)

	// Alpha reconnects but beta now holds the earlier position.
	registry.Register("alpha", []domain.ToolDescriptor{descriptor("shared_tool")})
	conn, found = registry.Resolve("shared_tool")
	require.True(t, found)
	assert.Equal(t, "beta", conn)
}

func TestConnectionToolRegistry_RegisterReplaces(t *testing.T) {
	registry := NewConnectionToolRegistry()
	registry.Register("alpha", []domain.ToolDescriptor{descriptor("old_tool")})
	registry.Register("alpha", []domain.ToolDescriptor{descriptor("new_tool")})

	_, found := registry.Resolve("old_tool")
	assert.False(t, found)

	conn, found := registry.Resolve("new_tool")
	require.True(t, found)
	assert.Equal(t, "alpha", conn)
}

func TestConnectionToolRegistry_AllTools(t *testing.T) {
	registry := NewConnectionToolRegistry()
	assert.Empty(t, registry.AllTools())

	registry.Register("alpha", []domain.ToolDescriptor{descriptor("tool_a"), descriptor("tool_b")})
	registry.Register("beta", []domain.ToolDescriptor{descriptor("tool_c")})

	all := registry.AllTools()
	require.Len(t, all, 3)
	assert.Equal(t, "tool_a", all[0].Name)
	assert.Equal(t, "tool_b", all[1].Name)
	assert.Equal(t, "tool_c", all[2].Name)
	assert.Equal(t, "alpha", all[0].Connection)
	assert.Equal(t, "beta", all[2].Connection)

	// Re-registration keeps alpha's position.
	registry.Register("alpha", []domain.ToolDescriptor{descriptor("tool_d")})
	all = registry.AllTools()
	require.Len(t, all, 2)
	assert.Equal(t, "tool_d", all[0].Name)
	assert.Equal(t, "tool_c", all[1].Name)
}

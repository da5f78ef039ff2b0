package domain

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRegistry struct {
	registered   map[string][]ToolDescriptor
	unregistered []string
}

func newStubRegistry() *stubRegistry {
	return &stubRegistry{registered: map[string][]ToolDescriptor{}}
}

func (r *stubRegistry) Register(connectionID string, tools []ToolDescriptor) {
	r.registered[connectionID] = tools
}

func (r *stubRegistry) Unregister(connectionID string) {
	delete(r.registered, connectionID)
	r.unregistered = append(r.unregistered, connectionID)
}

func (r *stubRegistry) Resolve(toolName string) (string, bool) {
	for id, tools := range r.registered {
		for _, tool := range tools {
			if tool.Name == toolName {
				return id, true
			}
		}
	}
	return "", false
}

func (r *stubRegistry) AllTools() []ToolDescriptor {
	var all []ToolDescriptor
	for _, tools := range r.registered {
		all = append(all, tools...)
	}
	return all
}

type stubConnection struct{ id string }

func (c stubConnection) ListTools(ctx context.Context) ([]ToolDescriptor, error) { return nil, nil }
func (c stubConnection) CallTool(ctx context.Context, name string, args map[string]any) (ToolCallOutput, error) {
	return ToolCallOutput{}, nil
}
func (c stubConnection) Close() error { return nil }

func TestSession_History(t *testing.T) {
	session := NewSession(uuid.New(), time.Now(), newStubRegistry(), NewSystemMessage("sys"))

	session.AppendMessages(NewUserMessage("hi"))

	history := session.History()
	require.Len(t, history, 2)
	assert.Equal(t, ChatRole_System, history[0].Role)
	assert.Equal(t, ChatRole_User, history[1].Role)

	// The snapshot is detached from session state.
	history[0].Content = "tampered"
	assert.Equal(t, "sys", session.History()[0].Content)
}

func TestSession_AttachDetachConnection(t *testing.T) {
	registry := newStubRegistry()
	session := NewSession(uuid.New(), time.Now(), registry)

	first := stubConnection{id: "v1"}
	second := stubConnection{id: "v2"}

	previous := session.AttachConnection("directory", first, []ToolDescriptor{{Name: "query_employees"}})
	assert.Nil(t, previous)

	conn, alive := session.Connection("directory")
	require.True(t, alive)
	assert.Equal(t, first, conn)

	// Re-attaching under the same name hands back the replaced connection.
	previous = session.AttachConnection("directory", second, []ToolDescriptor{{Name: "query_employees"}})
	assert.Equal(t, first, previous)

	detached := session.DetachConnection("directory")
	assert.Equal(t, second, detached)
	assert.Contains(t, registry.unregistered, "directory")

	_, alive = session.Connection("directory")
	assert.False(t, alive)

	assert.Nil(t, session.DetachConnection("ghost"))
}

func TestSession_DetachAll(t *testing.T) {
	registry := newStubRegistry()
	session := NewSession(uuid.New(), time.Now(), registry)

	session.AttachConnection("alpha", stubConnection{id: "a"}, []ToolDescriptor{{Name: "a1"}})
	session.AttachConnection("beta", stubConnection{id: "b"}, []ToolDescriptor{{Name: "b1"}})

	conns := session.DetachAll()
	assert.Len(t, conns, 2)
	assert.Empty(t, session.ConnectionIDs())
	assert.ElementsMatch(t, []string{"alpha", "beta"}, registry.unregistered)
	assert.Empty(t, registry.AllTools())
}

func TestMessage_Constructors(t *testing.T) {
	system := NewSystemMessage("rules")
	assert.Equal(t, ChatRole_System, system.Role)

	user := NewUserMessage("hi")
	assert.Equal(t, ChatRole_User, user.Role)
	assert.False(t, user.HasToolCalls())

	toolMsg := NewToolResultMessage("call-1", `{"ok":true}`)
	assert.Equal(t, ChatRole_Tool, toolMsg.Role)
	require.NotNil(t, toolMsg.ToolCallID)
	assert.Equal(t, "call-1", *toolMsg.ToolCallID)

	assistant := Message{Role: ChatRole_Assistant, ToolCalls: []ToolCall{{ID: "call-1"}}}
	assert.True(t, assistant.HasToolCalls())
}

package domain

import (
	"context"
	"encoding/json"
)

// ToolDescriptor is the metadata of one tool exposed by a connection.
// Immutable once stored. The input schema is kept verbatim as reported by
// the server; no validation happens on this side of the wire.
type ToolDescriptor struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	// Connection is the identifier of the owning connection.
	Connection string
}

// ToolRegistry tracks, per live connection, the tools that connection
// exposes. One instance exists per chat session; connect/disconnect events
// may race an in-flight turn, so implementations must be safe for
// concurrent use.
type ToolRegistry interface {
	// Register replaces any existing tool list for connectionID.
	// Re-registration on reconnect is not an error.
	Register(connectionID string, tools []ToolDescriptor)

	// Unregister removes the connection's tools; no-op when absent.
	Unregister(connectionID string)

	// Resolve returns the first-registered connection exposing toolName.
	// When two connections expose the same name the earlier registration
	// wins; callers get no ambiguity signal.
	Resolve(toolName string) (string, bool)

	// AllTools returns every registered tool, connection registration
	// order preserved, for schema export.
	AllTools() []ToolDescriptor
}

// ToolCallOutput is the raw payload of one remote tool invocation before
// normalization.
type ToolCallOutput struct {
	// Text is the concatenated textual content of the result.
	Text string
	// Structured carries the server's structured result when it reported
	// one; nil for plain-text results.
	Structured any
	// IsError is the server-reported failure flag.
	IsError bool
}

// ToolConnection is one live session to a tool-providing server.
type ToolConnection interface {
	ListTools(ctx context.Context) ([]ToolDescriptor, error)
	CallTool(ctx context.Context, name string, args map[string]any) (ToolCallOutput, error)
	Close() error
}

// ToolConnector opens tool connections from transport specifications
// (stdio command lines or server URLs).
type ToolConnector interface {
	Open(ctx context.Context, spec string) (ToolConnection, error)
}

// ConnectionProvider looks up the live connection behind a registry entry.
// The connection may legitimately be gone by the time it is looked up.
type ConnectionProvider interface {
	Connection(connectionID string) (ToolConnection, bool)
}

// ToolInvocation is the normalized outcome of one tool call. Content is the
// model-facing payload; Display is the human-facing rendering (indented JSON
// for structured results). They may legitimately differ.
type ToolInvocation struct {
	Content string
	Display string
	IsError bool
}

// ToolInvoker executes model-issued tool calls. It never fails across its
// public boundary: every failure class is folded into an error-carrying
// ToolInvocation so the conversation loop always has something to feed
// back to the model.
type ToolInvoker interface {
	Invoke(ctx context.Context, session *Session, call ToolCall) ToolInvocation
}

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cleitonmarx/symbiont-mcp-chat/internal/domain"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/telemetry"
	"github.com/cleitonmarx/symbiont/depend"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RemoteToolInvoker routes model-issued tool calls to the live connection
// that owns the requested tool. Every failure class is folded into an
// error-carrying result string so the conversation loop can always hand
// something back to the model.
type RemoteToolInvoker struct{}

// NewRemoteToolInvoker creates a RemoteToolInvoker.
func NewRemoteToolInvoker() RemoteToolInvoker {
	return RemoteToolInvoker{}
}

// Invoke implements domain.ToolInvoker.
func (inv RemoteToolInvoker) Invoke(ctx context.Context, session *domain.Session, call domain.ToolCall) domain.ToolInvocation {
	spanCtx, span := telemetry.Start(ctx,
		trace.WithAttributes(
			attribute.String("tool.name", call.Name),
		),
	)
	defer span.End()

	args := map[string]any{}
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			result := errorResult(fmt.Sprintf(
				"Invalid JSON arguments received for tool '%s': %s", call.Name, call.Arguments,
			))
			RecordToolInvocation(spanCtx, call.Name, true)
			return result
		}
	}

	connectionID, found := session.Registry().Resolve(call.Name)
	if !found {
		result := errorResult(fmt.Sprintf(
			"Tool '%s' not found in any active connection.", call.Name,
		))
		RecordToolInvocation(spanCtx, call.Name, true)
		return result
	}

	conn, alive := session.Connection(connectionID)
	if !alive {
		// The connection disappeared between tool-list time and call time.
		result := errorResult(fmt.Sprintf(
			"Active session for connection '%s' not found.", connectionID,
		))
		RecordToolInvocation(spanCtx, call.Name, true)
		return result
	}

	output, err := conn.CallTool(spanCtx, call.Name, args)
	if telemetry.RecordErrorAndStatus(span, err) {
		result := errorResult(fmt.Sprintf(
			"Error executing tool '%s': %v", call.Name, err,
		))
		RecordToolInvocation(spanCtx, call.Name, true)
		return result
	}

	result := normalizeOutput(output)
	RecordToolInvocation(spanCtx, call.Name, result.IsError)
	return result
}

// normalizeOutput converts the raw tool output into the model-facing and
// display payloads. Structured results are pretty-printed for display but
// handed to the model in compact form.
func normalizeOutput(output domain.ToolCallOutput) domain.ToolInvocation {
	if output.IsError {
		return errorResult(output.Text)
	}

	if output.Structured != nil {
		compact, err := json.Marshal(output.Structured)
		if err != nil {
			return errorResult(fmt.Sprintf("Tool returned an unserializable result: %v", err))
		}
		display := compact
		if indented, err := json.MarshalIndent(output.Structured, "", "  "); err == nil {
			display = indented
		}
		return domain.ToolInvocation{
			Content: string(compact),
			Display: string(display),
		}
	}

	return domain.ToolInvocation{
		Content: output.Text,
		Display: output.Text,
	}
}

// errorResult builds a structured error payload shared by the model-facing
// and display representations.
func errorResult(message string) domain.ToolInvocation {
	payload, err := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: message})
	if err != nil {
		payload = []byte(`{"error":"tool invocation failed"}`)
	}
	return domain.ToolInvocation{
		Content: string(payload),
		Display: string(payload),
		IsError: true,
	}
}

// InitToolInvoker registers the tool invoker in the dependency container.
type InitToolInvoker struct{}

// Initialize registers the RemoteToolInvoker.
func (i InitToolInvoker) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[domain.ToolInvoker](NewRemoteToolInvoker())
	return ctx, nil
}

package domain

import (
	"context"

	"github.com/google/uuid"
)

// AssistantEventType represents the type of event in an assistant turn stream.
type AssistantEventType string

const (
	AssistantEventType_TurnStarted      AssistantEventType = "turn_started"
	AssistantEventType_MessageDelta     AssistantEventType = "message_delta"
	AssistantEventType_MessageCompleted AssistantEventType = "message_completed"
	AssistantEventType_StepStarted      AssistantEventType = "step_started"
	AssistantEventType_StepCompleted    AssistantEventType = "step_completed"
	AssistantEventType_TurnCompleted    AssistantEventType = "turn_completed"
	AssistantEventType_TurnFailed       AssistantEventType = "turn_failed"
)

// AssistantUsage contains token usage accumulated over one turn.
type AssistantUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// AssistantTurnStarted contains metadata for a streaming assistant turn.
type AssistantTurnStarted struct {
	SessionID uuid.UUID `json:"session_id"`
	TurnID    uuid.UUID `json:"turn_id"`
}

// AssistantMessageDelta contains a text delta from the stream.
type AssistantMessageDelta struct {
	Text string `json:"text"`
}

// AssistantMessageCompleted marks the end of one streamed assistant message.
// It is only emitted when at least one delta carried text.
type AssistantMessageCompleted struct {
	Text string `json:"text"`
}

// AssistantStepStarted announces one tool invocation about to run.
type AssistantStepStarted struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Input string `json:"input"`
}

// AssistantStepCompleted reports the outcome of one tool invocation.
type AssistantStepCompleted struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Output  string `json:"output"`
	IsError bool   `json:"is_error"`
}

// AssistantTurnCompleted contains completion metadata and usage.
type AssistantTurnCompleted struct {
	SessionID   uuid.UUID      `json:"session_id"`
	ToolRounds  int            `json:"tool_rounds"`
	Usage       AssistantUsage `json:"usage"`
	CompletedAt string         `json:"completed_at"`
}

// AssistantTurnFailed reports a turn aborted by an unrecoverable error.
type AssistantTurnFailed struct {
	SessionID uuid.UUID `json:"session_id"`
	Message   string    `json:"message"`
}

// AssistantEventCallback is called for each assistant turn event. Returning
// an error aborts the turn.
type AssistantEventCallback func(eventType AssistantEventType, data any) error

// TurnRequest is one chat completion request in domain terms.
type TurnRequest struct {
	Model    string
	Messages []Message
	// Tools holds the declarations exported from the session registry.
	// Empty means the model gets no tool declarations at all.
	Tools []ToolDescriptor
	// Optional generation settings.
	Temperature *float64
	TopP        *float64
	MaxTokens   *int
}

// ModelGateway issues one chat completion against the model endpoint.
//
// Complete performs two requests: a streaming one whose text deltas are
// forwarded to onDelta for live display, then an identical non-streaming one
// whose structured message (including the tool call list) is the
// authoritative result. Streamed text is display-only and never becomes
// history. Any fault at either request fails the whole operation.
type ModelGateway interface {
	Complete(ctx context.Context, req TurnRequest, onDelta func(text string) error) (Message, AssistantUsage, error)
}

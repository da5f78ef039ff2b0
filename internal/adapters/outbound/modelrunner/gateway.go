package modelrunner

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cleitonmarx/symbiont-mcp-chat/internal/domain"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/telemetry"
	"github.com/cleitonmarx/symbiont/depend"
)

// Gateway adapts APIClient to domain.ModelGateway.
//
// The endpoint's streaming representation of tool calls is fragmented and
// unreliable, so one logical completion is issued as two requests: a
// streaming one for live text display and a non-streaming one whose
// structured message is the authoritative turn result.
type Gateway struct {
	client  APIClient
	timeout time.Duration
}

// NewGateway creates a new Gateway. A timeout of zero disables the
// per-completion deadline.
func NewGateway(client APIClient, timeout time.Duration) Gateway {
	return Gateway{client: client, timeout: timeout}
}

// Complete implements domain.ModelGateway.
func (g Gateway) Complete(ctx context.Context, req domain.TurnRequest, onDelta func(text string) error) (domain.Message, domain.AssistantUsage, error) {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		spanCtx, cancel = context.WithTimeout(spanCtx, g.timeout)
		defer cancel()
	}

	adapterReq := toChatRequest(req)

	var usage domain.AssistantUsage

	streamReq := adapterReq
	streamReq.StreamOptions = &StreamOptions{IncludeUsage: true}
	err := g.client.ChatStream(spanCtx, streamReq, func(chunk StreamChunk) error {
		if chunk.Usage != nil {
			usage.PromptTokens += chunk.Usage.PromptTokens
			usage.CompletionTokens += chunk.Usage.CompletionTokens
			usage.TotalTokens += chunk.Usage.TotalTokens
		}
		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			if err := onDelta(choice.Delta.Content); err != nil {
				return err
			}
		}
		return nil
	})
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.Message{}, usage, domain.NewGatewayErr("streaming chat completion failed: "+err.Error(), err)
	}

	// The streamed text was display-only. Re-issue the identical request
	// without streaming to obtain the structurally complete assistant
	// message, including any tool call list.
	resp, err := g.client.Chat(spanCtx, adapterReq)
	if telemetry.RecordErrorAndStatus(span, err) {
		return domain.Message{}, usage, domain.NewGatewayErr("chat completion failed: "+err.Error(), err)
	}
	if len(resp.Choices) == 0 {
		err := errors.New("no choices in response")
		telemetry.RecordErrorAndStatus(span, err)
		return domain.Message{}, usage, domain.NewGatewayErr("chat completion returned no choices", err)
	}

	if resp.Usage != nil {
		usage.PromptTokens += resp.Usage.PromptTokens
		usage.CompletionTokens += resp.Usage.CompletionTokens
		usage.TotalTokens += resp.Usage.TotalTokens
	}

	return toDomainMessage(resp.Choices[0].Message), usage, nil
}

// ToolDeclarations converts registry tool metadata into the endpoint's
// function-tool declaration format. Schemas are passed through verbatim;
// the endpoint is responsible for rejecting malformed ones.
func ToolDeclarations(tools []domain.ToolDescriptor) []Tool {
	if len(tools) == 0 {
		return nil
	}
	declarations := make([]Tool, len(tools))
	for i, tool := range tools {
		declarations[i] = Tool{
			Type: "function",
			Function: ToolFunc{
				Name:        tool.Name,
				Description: tool.Description,
				Parameters:  tool.InputSchema,
			},
		}
	}
	return declarations
}

// toChatRequest maps a domain turn request onto the wire format. Tool
// declarations with auto tool-choice are attached only when tools exist.
func toChatRequest(req domain.TurnRequest) ChatRequest {
	adapterReq := ChatRequest{
		Model:       req.Model,
		Temperature: req.Temperature,
		TopP:        req.TopP,
		MaxTokens:   req.MaxTokens,
		Messages:    make([]ChatMessage, len(req.Messages)),
	}

	for i, msg := range req.Messages {
		adpMsg := ChatMessage{
			Role:       string(msg.Role),
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}
		for _, call := range msg.ToolCalls {
			adpMsg.ToolCalls = append(adpMsg.ToolCalls, ToolCall{
				ID:   call.ID,
				Type: call.Type,
				Function: ToolCallFunction{
					Name:      call.Name,
					Arguments: call.Arguments,
				},
			})
		}
		adapterReq.Messages[i] = adpMsg
	}

	if declarations := ToolDeclarations(req.Tools); len(declarations) > 0 {
		adapterReq.Tools = declarations
		adapterReq.ToolChoice = "auto"
	}

	return adapterReq
}

// toDomainMessage converts the endpoint's assistant message into domain
// terms, keeping the tool call list verbatim for model-side replay.
func toDomainMessage(msg Message) domain.Message {
	out := domain.Message{
		Role:    domain.ChatRole_Assistant,
		Content: msg.Content,
	}
	for _, call := range msg.ToolCalls {
		out.ToolCalls = append(out.ToolCalls, domain.ToolCall{
			ID:        call.ID,
			Type:      call.Type,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}
	return out
}

// InitModelGateway initializes the model gateway dependency.
type InitModelGateway struct {
	HttpClient *http.Client `resolve:""`
	ModelHost  string       `config:"LLM_MODEL_HOST"`
	APIKey     string       `config:"LLM_API_KEY" default:"-"`
	Timeout    string       `config:"LLM_REQUEST_TIMEOUT" default:"120s"`
}

// Initialize registers the gateway.
func (i InitModelGateway) Initialize(ctx context.Context) (context.Context, error) {
	apiKey := i.APIKey
	if apiKey == "-" {
		apiKey = ""
	}
	timeout, err := time.ParseDuration(i.Timeout)
	if err != nil {
		return ctx, domain.NewValidationErr("invalid LLM_REQUEST_TIMEOUT: " + i.Timeout)
	}

	depend.Register[domain.ModelGateway](NewGateway(
		NewAPIClient(i.ModelHost, apiKey, i.HttpClient),
		timeout,
	))
	return ctx, nil
}

package usecases

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cleitonmarx/symbiont-mcp-chat/internal/common"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/domain"
	"github.com/cleitonmarx/symbiont-mcp-chat/internal/telemetry"
	"github.com/cleitonmarx/symbiont/depend"
	"github.com/google/uuid"
)

const (
	// Keep tool-calling deterministic to reduce malformed function arguments.
	CHAT_TEMPERATURE = 0.2
	CHAT_TOP_P       = 0.7
)

// RunTurn defines the interface for the RunTurn use case
type RunTurn interface {
	// Execute runs one conversation turn, streaming assistant events
	Execute(ctx context.Context, sessionID uuid.UUID, userMessage string, onEvent domain.AssistantEventCallback) error
}

// RunTurnImpl is the implementation of the RunTurn use case
type RunTurnImpl struct {
	sessionRepo   domain.SessionRepository
	gateway       domain.ModelGateway
	invoker       domain.ToolInvoker
	timeProvider  domain.CurrentTimeProvider
	model         string
	maxToolRounds int
}

// NewRunTurnImpl creates a new instance of RunTurnImpl
func NewRunTurnImpl(
	sessionRepo domain.SessionRepository,
	gateway domain.ModelGateway,
	invoker domain.ToolInvoker,
	timeProvider domain.CurrentTimeProvider,
	model string,
	maxToolRounds int,
) RunTurnImpl {
	return RunTurnImpl{
		sessionRepo:   sessionRepo,
		gateway:       gateway,
		invoker:       invoker,
		timeProvider:  timeProvider,
		model:         model,
		maxToolRounds: maxToolRounds,
	}
}

// Execute runs one conversation turn: the user message is appended to the
// session history, then the model is queried repeatedly until it answers
// without tool calls or the tool-round cap is hit. Tool declarations are
// recomputed from the registry on every iteration so connections attached
// or detached mid-turn take effect on the next round.
func (rt RunTurnImpl) Execute(ctx context.Context, sessionID uuid.UUID, userMessage string, onEvent domain.AssistantEventCallback) error {
	spanCtx, span := telemetry.Start(ctx)
	defer span.End()

	if strings.TrimSpace(userMessage) == "" {
		return domain.NewValidationErr("message cannot be empty")
	}

	session, found := rt.sessionRepo.Get(sessionID)
	if !found {
		return domain.NewNotFoundErr("session not found")
	}

	session.BeginTurn()
	defer session.EndTurn()

	turnID := uuid.New()
	if err := onEvent(domain.AssistantEventType_TurnStarted, domain.AssistantTurnStarted{
		SessionID: session.ID,
		TurnID:    turnID,
	}); err != nil {
		return err
	}

	session.AppendMessages(domain.NewUserMessage(userMessage))

	var turnUsage domain.AssistantUsage
	toolRounds := 0

	for {
		req := domain.TurnRequest{
			Model:       rt.model,
			Messages:    session.History(),
			Tools:       session.Registry().AllTools(),
			Temperature: common.Ptr(CHAT_TEMPERATURE),
			TopP:        common.Ptr(CHAT_TOP_P),
		}

		assistantMsg, usage, err := rt.gateway.Complete(spanCtx, req, func(text string) error {
			return onEvent(domain.AssistantEventType_MessageDelta, domain.AssistantMessageDelta{Text: text})
		})
		if telemetry.RecordErrorAndStatus(span, err) {
			return err
		}

		turnUsage.PromptTokens += usage.PromptTokens
		turnUsage.CompletionTokens += usage.CompletionTokens
		turnUsage.TotalTokens += usage.TotalTokens

		// The assistant message enters history verbatim, tool calls included,
		// so the model can match tool results to its own requests later.
		session.AppendMessages(assistantMsg)

		if assistantMsg.Content != "" {
			if err := onEvent(domain.AssistantEventType_MessageCompleted, domain.AssistantMessageCompleted{
				Text: assistantMsg.Content,
			}); err != nil {
				return err
			}
		}

		if !assistantMsg.HasToolCalls() {
			break
		}

		if toolRounds >= rt.maxToolRounds {
			err := domain.NewLoopLimitErr("turn exceeded the maximum number of tool rounds")
			telemetry.RecordErrorAndStatus(span, err)
			return err
		}
		toolRounds++

		if err := rt.runToolCalls(spanCtx, session, assistantMsg.ToolCalls, onEvent); err != nil {
			return err
		}
	}

	RecordLLMTokensUsed(spanCtx, turnUsage.PromptTokens, turnUsage.CompletionTokens)

	return onEvent(domain.AssistantEventType_TurnCompleted, domain.AssistantTurnCompleted{
		SessionID:   session.ID,
		ToolRounds:  toolRounds,
		Usage:       turnUsage,
		CompletedAt: rt.timeProvider.Now().Format(time.RFC3339),
	})
}

// runToolCalls executes the calls of one assistant message in their declared
// order and appends one tool message per call, preserving that order.
func (rt RunTurnImpl) runToolCalls(ctx context.Context, session *domain.Session, calls []domain.ToolCall, onEvent domain.AssistantEventCallback) error {
	for _, call := range calls {
		if err := onEvent(domain.AssistantEventType_StepStarted, domain.AssistantStepStarted{
			ID:    call.ID,
			Name:  call.Name,
			Input: call.Arguments,
		}); err != nil {
			return err
		}

		invocation := rt.invokeCall(ctx, session, call)

		if err := onEvent(domain.AssistantEventType_StepCompleted, domain.AssistantStepCompleted{
			ID:      call.ID,
			Name:    call.Name,
			Output:  invocation.Display,
			IsError: invocation.IsError,
		}); err != nil {
			return err
		}

		session.AppendMessages(domain.NewToolResultMessage(call.ID, invocation.Content))
	}
	return nil
}

// invokeCall dispatches one tool call. Call types other than "function" are
// answered with an error payload without touching any connection.
func (rt RunTurnImpl) invokeCall(ctx context.Context, session *domain.Session, call domain.ToolCall) domain.ToolInvocation {
	if call.Type != domain.ToolCallType_Function {
		payload, err := json.Marshal(map[string]string{
			"error": "Unsupported tool call type: " + call.Type,
		})
		if err != nil {
			payload = []byte(`{"error": "Unsupported tool call type"}`)
		}
		return domain.ToolInvocation{
			Content: string(payload),
			Display: string(payload),
			IsError: true,
		}
	}
	return rt.invoker.Invoke(ctx, session, call)
}

// InitRunTurn is the initializer of the RunTurn use case
type InitRunTurn struct {
	SessionRepo  domain.SessionRepository   `resolve:""`
	Gateway      domain.ModelGateway        `resolve:""`
	Invoker      domain.ToolInvoker         `resolve:""`
	TimeProvider domain.CurrentTimeProvider `resolve:""`
	Model        string                     `config:"LLM_MODEL"`
	// Maximum number of tool rounds in a single turn
	// It restricts how many times the model can chain tool calls before the turn is aborted
	MaxToolRounds int `config:"CHAT_MAX_TOOL_ROUNDS" default:"25"`
}

// Initialize registers the RunTurn use case in the dependency container
func (i InitRunTurn) Initialize(ctx context.Context) (context.Context, error) {
	depend.Register[RunTurn](NewRunTurnImpl(
		i.SessionRepo,
		i.Gateway,
		i.Invoker,
		i.TimeProvider,
		i.Model,
		i.MaxToolRounds,
	))
	return ctx, nil
}

package domain

// ChatRole represents the role of a chat message
type ChatRole string

const (
	ChatRole_System    ChatRole = "system"
	ChatRole_User      ChatRole = "user"
	ChatRole_Assistant ChatRole = "assistant"
	ChatRole_Tool      ChatRole = "tool"
)

// ToolCallType_Function is the only tool call type the orchestrator executes.
// Any other type reported by the model is answered with an error tool message.
const ToolCallType_Function = "function"

// ToolCall is one tool invocation requested by the model inside an
// assistant message. Arguments is the raw JSON string exactly as
// the model produced it.
type ToolCall struct {
	ID        string
	Type      string
	Name      string
	Arguments string
}

// Message is one entry of a conversation history. Assistant messages may
// carry tool calls; tool messages reference the call they answer via
// ToolCallID.
type Message struct {
	Role       ChatRole
	Content    string
	ToolCallID *string
	ToolCalls  []ToolCall
}

// NewSystemMessage creates the instruction message seeded at session start.
func NewSystemMessage(content string) Message {
	return Message{Role: ChatRole_System, Content: content}
}

// NewUserMessage creates a user turn message.
func NewUserMessage(content string) Message {
	return Message{Role: ChatRole_User, Content: content}
}

// NewToolResultMessage creates the tool message answering one pending call.
func NewToolResultMessage(callID, content string) Message {
	return Message{Role: ChatRole_Tool, ToolCallID: &callID, Content: content}
}

// HasToolCalls reports whether this assistant message requests tool execution.
func (m Message) HasToolCalls() bool {
	return len(m.ToolCalls) > 0
}

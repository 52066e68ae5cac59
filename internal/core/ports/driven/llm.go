package driven

import "context"

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ChatMessage is one message in a conversation.
type ChatMessage struct {
	Role    string
	Content string

	// ToolCalls is set on assistant messages that request tool execution.
	ToolCalls []ToolCall

	// ToolCallID links a tool-role message to the call it answers.
	ToolCallID string
}

// ToolCall is a model-initiated invocation of a named tool.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string // raw JSON
}

// ToolDef describes a tool the model may call.
type ToolDef struct {
	Name        string
	Description string
	Parameters  map[string]any // JSON schema
}

// ChatModel is a streamed language model. Implementations must invoke
// onDelta only for user-visible content: deltas produced while the model is
// streaming tool-call arguments are accumulated into the returned message's
// ToolCalls and never surfaced through onDelta.
type ChatModel interface {
	StreamChat(ctx context.Context, messages []ChatMessage, tools []ToolDef, onDelta func(content string)) (ChatMessage, error)
}

// TopicCheck is the outcome of guardrail classification.
type TopicCheck struct {
	OnTopic         bool
	Reason          string
	SuggestedTopics []string
}

// TopicClassifier decides whether a query is within the textbook's scope.
// The core only honours the boolean tripwire and relays suggested topics;
// classification itself is an external capability.
type TopicClassifier interface {
	Classify(ctx context.Context, query string) (TopicCheck, error)
}

package driving

import (
	"context"

	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/domain"
)

// Chat stream event types.
const (
	EventDelta = "delta"
	EventDone  = "done"
	EventError = "error"
)

// Stable error codes carried by error events.
const (
	CodeStreamError    = "STREAM_ERROR"
	CodeRetrievalError = "RETRIEVAL_ERROR"
)

// ChatRequest is one conversational turn.
type ChatRequest struct {
	// SessionID identifies the conversation for history purposes.
	SessionID string

	// Message is the user's message.
	Message string

	// SelectedText is an optional passage the user selected in the book.
	SelectedText string

	// QuickAction is an optional named modifier: "explain", "summarize"
	// or "simplify".
	QuickAction string
}

// ChatEvent is one streamed event. A turn emits zero or more delta events
// followed by exactly one terminal event: done (with the accumulated
// citations) or error - never both.
type ChatEvent struct {
	Type      string
	Content   string            // delta text, or the error message
	Code      string            // stable error code on error events
	Citations []domain.Citation // set on the done event
}

// ChatService orchestrates one streamed generation turn.
type ChatService interface {
	// StreamTurn runs a turn and pushes events to emit in order. It
	// returns after the terminal event has been emitted; the returned
	// error mirrors the error event, if any.
	StreamTurn(ctx context.Context, req ChatRequest, emit func(ChatEvent)) error
}

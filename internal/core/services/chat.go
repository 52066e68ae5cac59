package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/domain"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/ports/driven"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/ports/driving"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/logger"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/prompts"
)

// Ensure Chat implements the interface.
var _ driving.ChatService = (*Chat)(nil)

// DefaultHistoryLimit bounds the conversation history handed to the model.
const DefaultHistoryLimit = 10

// maxToolRounds bounds the retrieval tool loop within one turn.
const maxToolRounds = 4

// Chat orchestrates one streamed generation turn: guardrail check, prompt
// assembly, the model's retrieval tool loop and the terminal event carrying
// citations.
type Chat struct {
	model        driven.ChatModel
	retriever    driving.RetrieverService
	classifier   driven.TopicClassifier
	history      driven.HistoryStore
	historyLimit int
}

// ChatOption configures the chat service.
type ChatOption func(*Chat)

// WithTopicClassifier enables the topic guardrail.
func WithTopicClassifier(c driven.TopicClassifier) ChatOption {
	return func(s *Chat) { s.classifier = c }
}

// WithHistoryStore enables conversation persistence.
func WithHistoryStore(h driven.HistoryStore) ChatOption {
	return func(s *Chat) { s.history = h }
}

// WithHistoryLimit sets the number of recent turns handed to the model.
func WithHistoryLimit(n int) ChatOption {
	return func(s *Chat) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// NewChat creates the chat service. The model and retriever are required;
// the classifier and history store are optional.
func NewChat(model driven.ChatModel, retriever driving.RetrieverService, opts ...ChatOption) (*Chat, error) {
	if model == nil {
		return nil, domain.ErrChatModelUnavailable
	}
	if retriever == nil {
		return nil, fmt.Errorf("%w: retriever is required", domain.ErrInvalidInput)
	}
	s := &Chat{
		model:        model,
		retriever:    retriever,
		historyLimit: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// searchArgs is the argument schema shared by both retrieval tools.
type searchArgs struct {
	Query   string `json:"query"`
	TopK    int    `json:"top_k"`
	Chapter string `json:"chapter"`
}

// retrievalTools describes the tools offered to the model.
func retrievalTools() []driven.ToolDef {
	queryProp := map[string]any{"type": "string", "description": "The search query or question"}
	topKProp := map[string]any{"type": "integer", "description": "Number of results to return"}
	return []driven.ToolDef{
		{
			Name:        "search_textbook",
			Description: "Search the Physical AI textbook for relevant content using semantic search.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": queryProp,
					"top_k": topKProp,
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "search_textbook_by_chapter",
			Description: "Search within a specific chapter of the textbook.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"chapter": map[string]any{"type": "string", "description": "Chapter identifier, e.g. chapter-01"},
					"query":   queryProp,
					"top_k":   topKProp,
				},
				"required": []string{"chapter", "query"},
			},
		},
	}
}

// StreamTurn runs one conversational turn. Events are pushed to emit in
// order: zero or more deltas followed by exactly one terminal done or error
// event. The returned error mirrors the error event.
func (s *Chat) StreamTurn(ctx context.Context, req driving.ChatRequest, emit func(driving.ChatEvent)) error {
	fail := func(code string, err error) error {
		emit(driving.ChatEvent{Type: driving.EventError, Content: err.Error(), Code: code})
		return err
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return fail(driving.CodeStreamError, fmt.Errorf("%w: empty message", domain.ErrInvalidInput))
	}

	if s.classifier != nil {
		check, err := s.classifier.Classify(ctx, message)
		if err != nil {
			// Guardrail failure must not block the student; proceed
			// as on-topic.
			logger.Warn("Topic classification failed: %v", err)
		} else if !check.OnTopic {
			logger.Info("Guardrail tripped: %s", check.Reason)
			refusal := prompts.OffTopic(check.Reason, check.SuggestedTopics)
			emit(driving.ChatEvent{Type: driving.EventDelta, Content: refusal})
			emit(driving.ChatEvent{Type: driving.EventDone})
			s.persistTurn(ctx, req.SessionID, message, refusal)
			return nil
		}
	}

	messages, err := s.buildMessages(ctx, req, message)
	if err != nil {
		return fail(driving.CodeStreamError, err)
	}

	runCtx := NewRunContext()
	tools := retrievalTools()
	var answer strings.Builder
	onDelta := func(content string) {
		answer.WriteString(content)
		emit(driving.ChatEvent{Type: driving.EventDelta, Content: content})
	}

	for round := 0; ; round++ {
		offered := tools
		if round >= maxToolRounds {
			// Tool budget spent. Withhold the tools so the model has to
			// close the turn with the results it already has.
			logger.Debug("Tool round limit reached, forcing final answer")
			offered = nil
		}
		resp, err := s.model.StreamChat(ctx, messages, offered, onDelta)
		if err != nil {
			return fail(driving.CodeStreamError, fmt.Errorf("stream: %w", err))
		}
		if offered == nil || len(resp.ToolCalls) == 0 {
			break
		}

		messages = append(messages, resp)
		for _, call := range resp.ToolCalls {
			result, err := s.executeTool(ctx, runCtx, call)
			if err != nil {
				return fail(driving.CodeRetrievalError, err)
			}
			messages = append(messages, driven.ChatMessage{
				Role:       driven.RoleTool,
				Content:    result,
				ToolCallID: call.ID,
			})
		}
	}

	emit(driving.ChatEvent{Type: driving.EventDone, Citations: runCtx.Citations()})
	s.persistTurn(ctx, req.SessionID, message, answer.String())
	return nil
}

// buildMessages assembles the system prompt, bounded history and the user
// message for one turn.
func (s *Chat) buildMessages(ctx context.Context, req driving.ChatRequest, message string) ([]driven.ChatMessage, error) {
	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: prompts.Build(req.SelectedText, req.QuickAction)},
	}

	if s.history != nil && req.SessionID != "" {
		turns, err := s.history.Recent(ctx, req.SessionID, s.historyLimit)
		if err != nil {
			return nil, fmt.Errorf("load history: %w", err)
		}
		for _, t := range turns {
			messages = append(messages, driven.ChatMessage{Role: t.Role, Content: t.Content})
		}
	}

	if req.SelectedText != "" {
		message = "[Selected text: " + req.SelectedText + "]\n\n" + message
	}
	return append(messages, driven.ChatMessage{Role: driven.RoleUser, Content: message}), nil
}

// executeTool runs one retrieval tool call and records the results in the
// run context. An empty result set is answered with a sentinel string, not
// an error: "nothing relevant" and "retrieval failed" are distinct.
func (s *Chat) executeTool(ctx context.Context, runCtx *RunContext, call driven.ToolCall) (string, error) {
	var args searchArgs
	if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
		return "", fmt.Errorf("tool %s arguments: %w", call.Name, err)
	}

	var chapter string
	switch call.Name {
	case "search_textbook":
	case "search_textbook_by_chapter":
		chapter = args.Chapter
	default:
		return "", fmt.Errorf("%w: unknown tool %q", domain.ErrInvalidInput, call.Name)
	}

	chunks, err := s.retriever.Retrieve(ctx, args.Query, args.TopK, chapter)
	if err != nil {
		return "", fmt.Errorf("tool %s: %w", call.Name, err)
	}
	if len(chunks) == 0 {
		return prompts.NoResults, nil
	}
	if err := runCtx.Record(chunks); err != nil {
		return "", err
	}
	return runCtx.ContextString(), nil
}

// persistTurn appends the user and assistant turns to the session history.
// History is best effort; a storage failure never fails the turn.
func (s *Chat) persistTurn(ctx context.Context, sessionID, user, assistant string) {
	if s.history == nil || sessionID == "" {
		return
	}
	if err := s.history.Append(ctx, sessionID, driven.Turn{Role: driven.RoleUser, Content: user}); err != nil {
		logger.Warn("Persist user turn: %v", err)
		return
	}
	if assistant == "" {
		return
	}
	if err := s.history.Append(ctx, sessionID, driven.Turn{Role: driven.RoleAssistant, Content: assistant}); err != nil {
		logger.Warn("Persist assistant turn: %v", err)
	}
}

package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrScoreOutOfRange indicates a relevance score outside [0.0, 1.0].
	// Scores are validated at construction, never clamped.
	ErrScoreOutOfRange = errors.New("relevance score out of range")

	// ErrEmptyChunk indicates a chunk with no content.
	ErrEmptyChunk = errors.New("chunk content cannot be empty")

	// ErrTokenBudgetExceeded indicates a chunk whose re-tokenized length
	// exceeds the configured maximum. This signals a tokenizer mismatch
	// and is a fatal ingestion defect, not a recoverable condition.
	ErrTokenBudgetExceeded = errors.New("chunk token count exceeds maximum")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorStoreUnavailable indicates the vector store is not configured.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")

	// ErrChatModelUnavailable indicates the chat model is not configured.
	ErrChatModelUnavailable = errors.New("chat model unavailable")

	// ErrOffTopic indicates the topic guardrail rejected a query.
	ErrOffTopic = errors.New("query is off topic")
)

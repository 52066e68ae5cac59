// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Turns text into fixed-dimension vectors
//   - VectorStore: Persists points and answers nearest-neighbour queries
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ChatModel: Streamed language model generation. Without it, the chat
//     command is disabled; ingestion and search still work.
//   - TopicClassifier: Guardrail classification. Without it, every query
//     is treated as on-topic.
//   - HistoryStore: Conversation persistence. Without it, each chat turn
//     starts from an empty history.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

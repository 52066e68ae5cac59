package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: This is separate from VectorStore, which stores and searches
// vectors. EmbeddingService generates vectors; VectorStore stores them.
// The dimensionality reported here must match the store's collection
// configuration exactly.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one request.
	// The returned slice is in input order regardless of the order the
	// backing service answered in - implementations must enforce this,
	// not assume it.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size (e.g. 1536).
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string
}

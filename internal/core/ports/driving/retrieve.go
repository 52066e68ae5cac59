package driving

import (
	"context"

	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/domain"
)

// RetrieverService answers semantic queries with ranked, citation-bearing
// chunks. Calls are stateless and safe for unbounded concurrent use.
type RetrieverService interface {
	// Retrieve embeds the query, searches the vector store and
	// reconstructs the matching chunks in the store's ranking order.
	// Zero qualifying results is not an error: the returned slice is
	// empty and err is nil.
	//
	// chapter, when non-empty, restricts the search to one chapter.
	Retrieve(ctx context.Context, query string, topK int, chapter string) ([]domain.RetrievedChunk, error)
}

package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/domain"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/ports/driven"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/ports/driving"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/logger"
)

// Ensure Retriever implements the interface.
var _ driving.RetrieverService = (*Retriever)(nil)

// DefaultScoreThreshold is the minimum similarity below which a point is
// excluded from results even when it fits within top-k.
const DefaultScoreThreshold = 0.3

// DefaultTopK is the default number of results per query.
const DefaultTopK = 3

// Retriever answers semantic queries against the textbook index. It holds
// no mutable state; every call embeds its own query and runs its own index
// query, so concurrent use needs no coordination.
type Retriever struct {
	embedder  driven.EmbeddingService
	store     driven.VectorStore
	threshold float64
	topK      int
}

// RetrieverOption configures the retriever.
type RetrieverOption func(*Retriever)

// WithScoreThreshold sets the minimum similarity score.
func WithScoreThreshold(t float64) RetrieverOption {
	return func(r *Retriever) { r.threshold = t }
}

// WithDefaultTopK sets the result count used when a caller passes topK <= 0.
func WithDefaultTopK(k int) RetrieverOption {
	return func(r *Retriever) {
		if k > 0 {
			r.topK = k
		}
	}
}

// NewRetriever creates a retriever with injected service handles.
func NewRetriever(embedder driven.EmbeddingService, store driven.VectorStore, opts ...RetrieverOption) (*Retriever, error) {
	if embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if store == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}
	r := &Retriever{
		embedder:  embedder,
		store:     store,
		threshold: DefaultScoreThreshold,
		topK:      DefaultTopK,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Retrieve embeds the query and returns the nearest chunks in the store's
// ranking order. No client-side re-ranking or cross-chunk deduplication is
// performed: several chunks of the same section may legitimately appear in
// one result set. Zero qualifying results returns an empty slice, nil error.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int, chapter string) ([]domain.RetrievedChunk, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if topK <= 0 {
		topK = r.topK
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := r.store.Query(ctx, vector, driven.QueryOptions{
		TopK:           topK,
		Chapter:        chapter,
		ScoreThreshold: r.threshold,
	})
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}
	logger.Debug("Query %q: %d hits (top_k=%d, chapter=%q)", query, len(hits), topK, chapter)

	chunks := make([]domain.RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		id := canonicalID(hit.ID)
		chunk, err := domain.NewRetrievedChunk(id, hit.Payload, hit.Score)
		if err != nil {
			return nil, fmt.Errorf("point %s: %w", id, err)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// BuildCitations derives one citation per retrieved chunk, in input order.
func BuildCitations(chunks []domain.RetrievedChunk) ([]domain.Citation, error) {
	citations := make([]domain.Citation, 0, len(chunks))
	for _, c := range chunks {
		citation, err := domain.NewCitation(c)
		if err != nil {
			return nil, err
		}
		citations = append(citations, citation)
	}
	return citations, nil
}

// canonicalID coerces a point identifier to canonical UUID string form when
// it parses as one. The store may return ids in other shapes (numeric ids
// arrive as their decimal string); those pass through unchanged.
func canonicalID(raw string) string {
	if id, err := uuid.Parse(raw); err == nil {
		return id.String()
	}
	return raw
}

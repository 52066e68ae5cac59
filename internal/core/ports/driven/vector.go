package driven

import (
	"context"

	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/domain"
)

// VectorStore persists index points and answers nearest-neighbour queries
// against one named collection with cosine distance.
type VectorStore interface {
	// RecreateCollection destroys the collection if it exists and creates
	// it fresh with the given vector dimension. Ingestion is a full
	// replace, never an incremental upsert.
	RecreateCollection(ctx context.Context, dimension int) error

	// CreatePayloadIndex creates a keyword payload index on the given
	// field to support filtered queries.
	CreatePayloadIndex(ctx context.Context, field string) error

	// Upsert writes points to the collection and waits for them to be
	// durable before returning.
	Upsert(ctx context.Context, points []domain.IndexPoint) error

	// Query returns the nearest points to the query vector, best first.
	Query(ctx context.Context, vector []float32, opts QueryOptions) ([]ScoredPoint, error)

	// CollectionInfo reports the collection's point count and status.
	CollectionInfo(ctx context.Context) (CollectionInfo, error)
}

// QueryOptions configures a nearest-neighbour query.
type QueryOptions struct {
	// TopK is the maximum number of points to return.
	TopK int

	// Chapter, when non-empty, restricts results to points whose chapter
	// payload field matches exactly.
	Chapter string

	// ScoreThreshold excludes points scoring below it even when they
	// would fit within TopK.
	ScoreThreshold float64
}

// ScoredPoint is one query hit: the point's identifier as the store
// returned it, its similarity score and its payload.
type ScoredPoint struct {
	ID      string
	Score   float64
	Payload domain.PointPayload
}

// CollectionInfo describes the state of the collection.
type CollectionInfo struct {
	PointCount int64
	Status     string
}

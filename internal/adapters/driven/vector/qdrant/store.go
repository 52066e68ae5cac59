// Package qdrant provides a vector store adapter backed by Qdrant's REST API.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/domain"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultCollection = "physical-ai-textbook"
	DefaultTimeout    = 120 * time.Second
)

// Config holds configuration for the Qdrant store.
type Config struct {
	// URL is the Qdrant base URL (required), e.g. http://localhost:6333.
	URL string

	// APIKey authenticates against Qdrant Cloud. Optional for local
	// instances.
	APIKey string

	// Collection is the collection name (default: physical-ai-textbook).
	Collection string

	// Timeout is the request timeout (default: 120s, sized for cloud
	// batch writes).
	Timeout time.Duration
}

// Store is a Qdrant REST client scoped to one collection with cosine
// distance.
type Store struct {
	client     *http.Client
	url        string
	apiKey     string
	collection string
}

// NewStore creates a new Qdrant store.
func NewStore(cfg Config) (*Store, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant: URL is required")
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Store{
		client:     &http.Client{Timeout: cfg.Timeout},
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
	}, nil
}

// Collection returns the configured collection name.
func (s *Store) Collection() string {
	return s.collection
}

// RecreateCollection drops the collection if it exists and creates it
// fresh with the given dimension and cosine distance.
func (s *Store) RecreateCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("qdrant: invalid dimension %d", dimension)
	}

	// Deleting a collection that does not exist is fine.
	if err := s.do(ctx, http.MethodDelete, s.collectionPath(""), nil, nil); err != nil {
		var nf *notFoundError
		if !errors.As(err, &nf) {
			return fmt.Errorf("delete collection: %w", err)
		}
	}

	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	if err := s.do(ctx, http.MethodPut, s.collectionPath(""), body, nil); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}

// CreatePayloadIndex creates a keyword index on a payload field.
func (s *Store) CreatePayloadIndex(ctx context.Context, field string) error {
	body := map[string]any{
		"field_name":   field,
		"field_schema": "keyword",
	}
	if err := s.do(ctx, http.MethodPut, s.collectionPath("/index?wait=true"), body, nil); err != nil {
		return fmt.Errorf("create payload index: %w", err)
	}
	return nil
}

// Upsert writes points and waits for durability.
func (s *Store) Upsert(ctx context.Context, points []domain.IndexPoint) error {
	if len(points) == 0 {
		return nil
	}
	upserts := make([]map[string]any, len(points))
	for i, p := range points {
		upserts[i] = map[string]any{
			"id":      p.ID,
			"vector":  p.Vector,
			"payload": p.Payload,
		}
	}
	body := map[string]any{"points": upserts}
	if err := s.do(ctx, http.MethodPut, s.collectionPath("/points?wait=true"), body, nil); err != nil {
		return fmt.Errorf("upsert %d points: %w", len(points), err)
	}
	return nil
}

// Query returns the nearest points, best first, honouring the chapter
// filter and score threshold.
func (s *Store) Query(ctx context.Context, vector []float32, opts driven.QueryOptions) ([]driven.ScoredPoint, error) {
	topK := opts.TopK
	if topK <= 0 {
		topK = 5
	}
	body := map[string]any{
		"query":        vector,
		"limit":        topK,
		"with_payload": true,
	}
	if opts.ScoreThreshold > 0 {
		body["score_threshold"] = opts.ScoreThreshold
	}
	if opts.Chapter != "" {
		body["filter"] = map[string]any{
			"must": []map[string]any{
				{
					"key":   "chapter",
					"match": map[string]any{"value": opts.Chapter},
				},
			},
		}
	}

	var resp struct {
		Result struct {
			Points []struct {
				ID      any                 `json:"id"`
				Score   float64             `json:"score"`
				Payload domain.PointPayload `json:"payload"`
			} `json:"points"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodPost, s.collectionPath("/points/query"), body, &resp); err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	hits := make([]driven.ScoredPoint, 0, len(resp.Result.Points))
	for _, p := range resp.Result.Points {
		hits = append(hits, driven.ScoredPoint{
			ID:      fmt.Sprintf("%v", p.ID),
			Score:   p.Score,
			Payload: p.Payload,
		})
	}
	return hits, nil
}

// CollectionInfo reports the collection's point count and status.
func (s *Store) CollectionInfo(ctx context.Context) (driven.CollectionInfo, error) {
	var resp struct {
		Result struct {
			PointsCount int64  `json:"points_count"`
			Status      string `json:"status"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodGet, s.collectionPath(""), nil, &resp); err != nil {
		return driven.CollectionInfo{}, fmt.Errorf("collection info: %w", err)
	}
	return driven.CollectionInfo{
		PointCount: resp.Result.PointsCount,
		Status:     resp.Result.Status,
	}, nil
}

// collectionPath builds a URL for the configured collection.
func (s *Store) collectionPath(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", s.url, s.collection, suffix)
}

// notFoundError marks a 404 so callers can ignore missing-collection
// deletes.
type notFoundError struct {
	url string
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("qdrant: %s not found", e.url)
}

// do executes one JSON request against Qdrant, decoding the response into
// out when non-nil.
func (s *Store) do(ctx context.Context, method, url string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &notFoundError{url: url}
	}
	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: status %d: %s", method, url, resp.StatusCode, string(payload))
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

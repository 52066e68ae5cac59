package domain

import (
	"fmt"
	"strings"
	"time"
)

// Chunk is a token-bounded slice of one section's content. Chunks carry all
// of their section's provenance so the index payload is self-describing.
type Chunk struct {
	// Text is the chunk's content.
	Text string

	// Index is the zero-based position of this chunk within its section.
	Index int

	// TokenCount is the exact re-tokenized length of Text.
	// It is always measured, never derived arithmetically.
	TokenCount int

	// Section is the section this chunk was cut from, copied by value.
	Section Section
}

// NewChunk validates and constructs a chunk. maxTokens is the configured
// chunk size; a measured token count above it means the tokenizer and
// detokenizer disagree and the chunk must not be written.
func NewChunk(sec Section, text string, index, tokenCount, maxTokens int) (Chunk, error) {
	if strings.TrimSpace(text) == "" {
		return Chunk{}, ErrEmptyChunk
	}
	if tokenCount > maxTokens {
		return Chunk{}, fmt.Errorf("%w: %d > %d", ErrTokenBudgetExceeded, tokenCount, maxTokens)
	}
	return Chunk{
		Text:       text,
		Index:      index,
		TokenCount: tokenCount,
		Section:    sec,
	}, nil
}

// PointPayload is the versioned payload schema shared by the ingestion
// writer and the retrieval reader. A field rename here is a compile-time
// break on both sides rather than a silent key miss at query time.
type PointPayload struct {
	Content      string         `json:"content"`
	Chapter      string         `json:"chapter"`
	ChapterTitle string         `json:"chapter_title"`
	Section      string         `json:"section"`
	SectionTitle string         `json:"section_title"`
	Heading      string         `json:"heading,omitempty"`
	Anchor       string         `json:"anchor,omitempty"`
	PagePath     string         `json:"page_path"`
	BasePagePath string         `json:"base_page_path"`
	ChunkIndex   int            `json:"chunk_index"`
	TokenCount   int            `json:"token_count"`
	CreatedAt    time.Time      `json:"created_at"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// NewPointPayload packs a chunk into the index payload schema.
func NewPointPayload(c Chunk, createdAt time.Time) PointPayload {
	return PointPayload{
		Content:      c.Text,
		Chapter:      c.Section.Chapter,
		ChapterTitle: c.Section.ChapterTitle,
		Section:      c.Section.Section,
		SectionTitle: c.Section.SectionTitle,
		Heading:      c.Section.Heading,
		Anchor:       c.Section.Anchor,
		PagePath:     c.Section.PagePath,
		BasePagePath: c.Section.BasePagePath,
		ChunkIndex:   c.Index,
		TokenCount:   c.TokenCount,
		CreatedAt:    createdAt,
		Metadata:     c.Section.Metadata,
	}
}

// IndexPoint is the persisted unit in the vector index. The ID is fresh per
// ingestion run; the collection is rebuilt, so identifiers are never reused.
type IndexPoint struct {
	ID      string
	Vector  []float32
	Payload PointPayload
}

// IngestSummary aggregates the outcome of one ingestion run.
type IngestSummary struct {
	FilesProcessed int
	FilesSkipped   int
	Sections       int
	Chunks         int
	PointsWritten  int
	PointsFailed   int
}

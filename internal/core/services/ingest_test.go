package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/chunker"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/domain"
)

// wordEncoding tokenizes one word per token, so chunk boundaries in tests
// are easy to reason about.
type wordEncoding struct {
	vocab map[string]int
	words []string
}

func newWordEncoding() *wordEncoding {
	return &wordEncoding{vocab: map[string]int{}}
}

func (e *wordEncoding) Encode(text string) []int {
	fields := strings.Fields(text)
	tokens := make([]int, 0, len(fields))
	for _, w := range fields {
		id, ok := e.vocab[w]
		if !ok {
			id = len(e.words)
			e.vocab[w] = id
			e.words = append(e.words, w)
		}
		tokens = append(tokens, id)
	}
	return tokens
}

func (e *wordEncoding) Decode(tokens []int) string {
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = e.words[t]
	}
	return strings.Join(words, " ")
}

func testChunker(t *testing.T) *chunker.Chunker {
	t.Helper()
	ch, err := chunker.New(newWordEncoding(), chunker.WithChunkSize(16), chunker.WithOverlap(4))
	require.NoError(t, err)
	return ch
}

func writeDoc(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// sequentialIDs replaces the pipeline's UUID generator with a predictable
// counter so tests can target specific points.
func sequentialIDs(p *Pipeline) {
	n := 0
	p.newID = func() string {
		n++
		return fmt.Sprintf("point-%d", n)
	}
}

const introDoc = `---
title: Introduction
---

## What Is Physical AI

Physical AI brings machine learning to robots that sense and act in
the real world rather than purely in software.

## Why It Matters

Robots that learn can adapt to environments no programmer anticipated.
`

func TestNewPipeline(t *testing.T) {
	t.Run("requires embedder", func(t *testing.T) {
		_, err := NewPipeline(nil, &mockVectorStore{}, testChunker(t))
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})

	t.Run("requires store", func(t *testing.T) {
		_, err := NewPipeline(&mockEmbedder{}, nil, testChunker(t))
		assert.ErrorIs(t, err, domain.ErrVectorStoreUnavailable)
	})

	t.Run("requires chunker", func(t *testing.T) {
		_, err := NewPipeline(&mockEmbedder{}, &mockVectorStore{}, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestPipeline_Ingest(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		root := t.TempDir()
		writeDoc(t, root, "chapter-01/intro.md", introDoc)
		writeDoc(t, root, "chapter-02/sensors.md", "Cameras and lidar measure the world.")

		embedder := &mockEmbedder{}
		store := &mockVectorStore{}
		p, err := NewPipeline(embedder, store, testChunker(t))
		require.NoError(t, err)
		sequentialIDs(p)

		summary, err := p.Ingest(context.Background(), root)
		require.NoError(t, err)

		assert.Equal(t, 2, summary.FilesProcessed)
		assert.Equal(t, 0, summary.FilesSkipped)
		assert.Equal(t, 3, summary.Sections)
		assert.Positive(t, summary.Chunks)
		assert.Equal(t, summary.Chunks, summary.PointsWritten)
		assert.Equal(t, 0, summary.PointsFailed)

		// Collection rebuilt with the embedder's dimension and payload
		// indexes created before any write.
		assert.Equal(t, 1536, store.recreatedDim)
		assert.Equal(t, []string{"chapter", "section", "page_path"}, store.indexedFields)

		// One embedding request per section.
		assert.Len(t, embedder.batchCalls, 3)
	})

	t.Run("payload carries provenance", func(t *testing.T) {
		root := t.TempDir()
		writeDoc(t, root, "chapter-01/intro.md", introDoc)

		store := &mockVectorStore{}
		p, err := NewPipeline(&mockEmbedder{}, store, testChunker(t))
		require.NoError(t, err)
		sequentialIDs(p)

		_, err = p.Ingest(context.Background(), root)
		require.NoError(t, err)
		require.NotEmpty(t, store.upserts)

		first := store.upserts[0][0]
		assert.Equal(t, "chapter-01", first.Payload.Chapter)
		assert.Equal(t, "intro", first.Payload.Section)
		assert.Equal(t, "Introduction", first.Payload.SectionTitle)
		assert.Equal(t, "What Is Physical AI", first.Payload.Heading)
		assert.Equal(t, "/docs/chapter-01/intro#what-is-physical-ai", first.Payload.PagePath)
		assert.Equal(t, 0, first.Payload.ChunkIndex)
		assert.Positive(t, first.Payload.TokenCount)
		assert.False(t, first.Payload.CreatedAt.IsZero())
	})

	t.Run("malformed document skipped, run continues", func(t *testing.T) {
		root := t.TempDir()
		writeDoc(t, root, "chapter-01/bad.md", "---\ntitle: [unclosed\n---\n\ncontent")
		writeDoc(t, root, "chapter-01/good.md", "Perfectly fine prose about robots.")

		p, err := NewPipeline(&mockEmbedder{}, &mockVectorStore{}, testChunker(t))
		require.NoError(t, err)
		sequentialIDs(p)

		summary, err := p.Ingest(context.Background(), root)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.FilesProcessed)
		assert.Equal(t, 1, summary.FilesSkipped)
		assert.Positive(t, summary.PointsWritten)
	})

	t.Run("failed batch retried point by point", func(t *testing.T) {
		root := t.TempDir()
		writeDoc(t, root, "chapter-01/intro.md", introDoc)

		// Every multi-point batch fails; point-2 also fails its
		// individual retry.
		store := &mockVectorStore{
			failBatchOver: 1,
			failPointIDs:  map[string]bool{"point-2": true},
		}
		p, err := NewPipeline(&mockEmbedder{}, store, testChunker(t))
		require.NoError(t, err)
		sequentialIDs(p)

		summary, err := p.Ingest(context.Background(), root)
		require.NoError(t, err)

		assert.Equal(t, 1, summary.PointsFailed)
		assert.Equal(t, summary.Chunks-1, summary.PointsWritten)
		for _, batch := range store.upserts {
			assert.Len(t, batch, 1)
		}
	})

	t.Run("batching respects batch size", func(t *testing.T) {
		root := t.TempDir()
		writeDoc(t, root, "chapter-01/intro.md", introDoc)

		store := &mockVectorStore{}
		p, err := NewPipeline(&mockEmbedder{}, store, testChunker(t), WithBatchSize(2))
		require.NoError(t, err)
		sequentialIDs(p)

		summary, err := p.Ingest(context.Background(), root)
		require.NoError(t, err)
		require.Positive(t, summary.PointsWritten)
		for _, batch := range store.upserts {
			assert.LessOrEqual(t, len(batch), 2)
		}
	})

	t.Run("empty docs root", func(t *testing.T) {
		p, err := NewPipeline(&mockEmbedder{}, &mockVectorStore{}, testChunker(t))
		require.NoError(t, err)

		summary, err := p.Ingest(context.Background(), t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, domain.IngestSummary{}, summary)
	})

	t.Run("recreate failure aborts run", func(t *testing.T) {
		root := t.TempDir()
		writeDoc(t, root, "chapter-01/intro.md", introDoc)

		store := &mockVectorStore{recreateErr: fmt.Errorf("qdrant down")}
		p, err := NewPipeline(&mockEmbedder{}, store, testChunker(t))
		require.NoError(t, err)

		_, err = p.Ingest(context.Background(), root)
		assert.ErrorContains(t, err, "recreate collection")
	})

	t.Run("embedding failure skips the document", func(t *testing.T) {
		root := t.TempDir()
		writeDoc(t, root, "chapter-01/intro.md", introDoc)

		p, err := NewPipeline(&mockEmbedder{batchErr: fmt.Errorf("rate limited")}, &mockVectorStore{}, testChunker(t))
		require.NoError(t, err)

		summary, err := p.Ingest(context.Background(), root)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.FilesSkipped)
		assert.Zero(t, summary.PointsWritten)
	})

	t.Run("non-markdown files ignored", func(t *testing.T) {
		root := t.TempDir()
		writeDoc(t, root, "chapter-01/intro.md", "Real content here.")
		writeDoc(t, root, "chapter-01/image.png", "binary-ish")
		writeDoc(t, root, "notes.txt", "not markdown")

		p, err := NewPipeline(&mockEmbedder{}, &mockVectorStore{}, testChunker(t))
		require.NoError(t, err)
		sequentialIDs(p)

		summary, err := p.Ingest(context.Background(), root)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.FilesProcessed)
	})
}

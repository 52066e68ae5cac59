package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/chunker"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/domain"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/ports/driven"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/ports/driving"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/logger"
	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/markdown"
)

// Ensure Pipeline implements the interface.
var _ driving.Ingestor = (*Pipeline)(nil)

// DefaultBatchSize is the default number of points per upsert request.
// Small batches bound request size and keep retry granularity precise.
const DefaultBatchSize = 20

// Payload fields indexed for filtered queries.
var payloadIndexFields = []string{"chapter", "section", "page_path"}

// Pipeline implements the ingestion pipeline: it walks a docs tree, splits
// each document into sections, chunks each section, embeds chunk batches
// and writes the resulting points to the vector store as one full-replace
// run.
type Pipeline struct {
	embedder  driven.EmbeddingService
	store     driven.VectorStore
	chunker   *chunker.Chunker
	batchSize int
	newID     func() string
	now       func() time.Time
}

// PipelineOption configures the pipeline.
type PipelineOption func(*Pipeline)

// WithBatchSize sets the upsert batch size.
func WithBatchSize(n int) PipelineOption {
	return func(p *Pipeline) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

// NewPipeline creates an ingestion pipeline. All three collaborators are
// required; they are injected rather than reached for as globals so tests
// can substitute fakes.
func NewPipeline(embedder driven.EmbeddingService, store driven.VectorStore, ch *chunker.Chunker, opts ...PipelineOption) (*Pipeline, error) {
	if embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if store == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}
	if ch == nil {
		return nil, fmt.Errorf("%w: chunker is required", domain.ErrInvalidInput)
	}
	p := &Pipeline{
		embedder:  embedder,
		store:     store,
		chunker:   ch,
		batchSize: DefaultBatchSize,
		newID:     uuid.NewString,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Ingest runs the full pipeline over docsRoot.
//
// The target collection is destroyed and recreated first, so a cancelled
// run leaves a partially populated collection behind; callers re-run from
// scratch after any interruption. A failure in one document is logged and
// counted, never propagated: a single malformed document must not abort
// the run.
func (p *Pipeline) Ingest(ctx context.Context, docsRoot string) (domain.IngestSummary, error) {
	var summary domain.IngestSummary

	logger.Section("Ingestion")
	logger.Info("Docs root: %s", docsRoot)

	if err := p.store.RecreateCollection(ctx, p.embedder.Dimensions()); err != nil {
		return summary, fmt.Errorf("recreate collection: %w", err)
	}
	for _, field := range payloadIndexFields {
		if err := p.store.CreatePayloadIndex(ctx, field); err != nil {
			return summary, fmt.Errorf("create payload index %q: %w", field, err)
		}
	}

	files, err := markdownFiles(docsRoot)
	if err != nil {
		return summary, fmt.Errorf("scan docs root: %w", err)
	}
	logger.Info("Found %d markdown files", len(files))

	var points []domain.IndexPoint
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		logger.Progress(i+1, len(files), path)
		docPoints, sections, err := p.processDocument(ctx, docsRoot, path)
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			summary.FilesSkipped++
			continue
		}
		summary.FilesProcessed++
		summary.Sections += sections
		summary.Chunks += len(docPoints)
		points = append(points, docPoints...)
	}

	written, failed, err := p.writePoints(ctx, points)
	if err != nil {
		return summary, err
	}
	summary.PointsWritten = written
	summary.PointsFailed = failed

	logger.Info("Ingestion complete: %d files (%d skipped), %d sections, %d chunks, %d points written, %d failed",
		summary.FilesProcessed, summary.FilesSkipped, summary.Sections, summary.Chunks,
		summary.PointsWritten, summary.PointsFailed)
	return summary, nil
}

// processDocument turns one document into index points. Any failure inside
// (unreadable file, malformed front matter, tokenizer mismatch, embedding
// transport error) is returned whole so the caller can contain it per
// document.
func (p *Pipeline) processDocument(ctx context.Context, docsRoot, path string) ([]domain.IndexPoint, int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("read: %w", err)
	}
	rel, err := filepath.Rel(docsRoot, path)
	if err != nil {
		return nil, 0, fmt.Errorf("relativise path: %w", err)
	}

	sections, err := markdown.ParseSections(rel, raw)
	if err != nil {
		return nil, 0, err
	}
	logger.Debug("%s: %d sections", rel, len(sections))

	createdAt := p.now().UTC()
	var points []domain.IndexPoint
	for _, sec := range sections {
		pieces, err := p.chunker.Split(sec.Content)
		if err != nil {
			return nil, 0, fmt.Errorf("chunk section %q: %w", sec.Heading, err)
		}
		if len(pieces) == 0 {
			continue
		}

		chunks := make([]domain.Chunk, 0, len(pieces))
		texts := make([]string, 0, len(pieces))
		for i, piece := range pieces {
			c, err := domain.NewChunk(sec, piece.Text, i, piece.TokenCount, p.chunker.ChunkSize())
			if err != nil {
				return nil, 0, fmt.Errorf("chunk %d of section %q: %w", i, sec.Heading, err)
			}
			chunks = append(chunks, c)
			texts = append(texts, c.Text)
		}

		// One embedding request per section's chunk batch.
		vectors, err := p.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, 0, fmt.Errorf("embed section %q: %w", sec.Heading, err)
		}
		if len(vectors) != len(chunks) {
			return nil, 0, fmt.Errorf("embedding count mismatch: %d vectors for %d chunks", len(vectors), len(chunks))
		}

		for i, c := range chunks {
			points = append(points, domain.IndexPoint{
				ID:      p.newID(),
				Vector:  vectors[i],
				Payload: domain.NewPointPayload(c, createdAt),
			})
		}
	}
	return points, len(sections), nil
}

// writePoints upserts points in fixed-size batches. Batch N+1 is not
// started until batch N's outcome is known, so a failure is attributable
// to a specific batch. A failed batch is retried point by point, once
// each; a point that fails its individual retry is logged and skipped.
func (p *Pipeline) writePoints(ctx context.Context, points []domain.IndexPoint) (written, failed int, err error) {
	if len(points) == 0 {
		logger.Warn("No content to upload")
		return 0, 0, nil
	}
	logger.Info("Uploading %d points in batches of %d", len(points), p.batchSize)

	for start := 0; start < len(points); start += p.batchSize {
		if err := ctx.Err(); err != nil {
			return written, failed, err
		}
		end := start + p.batchSize
		if end > len(points) {
			end = len(points)
		}
		batch := points[start:end]

		if err := p.store.Upsert(ctx, batch); err == nil {
			written += len(batch)
			logger.Debug("Uploaded batch %d (%d points)", start/p.batchSize+1, len(batch))
			continue
		}

		logger.Warn("Batch %d failed, retrying points individually", start/p.batchSize+1)
		for i := range batch {
			if err := p.store.Upsert(ctx, batch[i:i+1]); err != nil {
				logger.Warn("Point %s failed individual retry: %v", batch[i].ID, err)
				failed++
				continue
			}
			written++
		}
	}
	return written, failed, nil
}

// markdownFiles lists every .md and .mdx file under root in walk order.
func markdownFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".md", ".mdx":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

package driving

import (
	"context"

	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/domain"
)

// Ingestor runs the document ingestion pipeline over a docs tree.
type Ingestor interface {
	// Ingest parses, chunks, embeds and indexes every markdown document
	// under docsRoot, fully replacing the target collection. A failure in
	// one document is contained and reported in the summary; it never
	// aborts the run.
	Ingest(ctx context.Context, docsRoot string) (domain.IngestSummary, error)
}

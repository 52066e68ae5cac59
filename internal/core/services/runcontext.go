package services

import (
	"strings"

	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/domain"
)

// NoContextSentinel is returned by ContextString when no chunks are held,
// so the generation step always receives explicit signal rather than an
// empty string.
const NoContextSentinel = "No relevant textbook content found."

// RunContext accumulates retrieved chunks and their citations for exactly
// one conversational turn. It is never shared across concurrent turns or
// reused after a turn completes; each turn constructs a fresh instance.
type RunContext struct {
	chunks    []domain.RetrievedChunk
	citations []domain.Citation
}

// NewRunContext creates an empty run context.
func NewRunContext() *RunContext {
	return &RunContext{}
}

// Record replaces the held chunk and citation set with the latest
// retrieval's results. It is the only state transition: empty or populated
// always moves to populated.
func (rc *RunContext) Record(chunks []domain.RetrievedChunk) error {
	citations, err := BuildCitations(chunks)
	if err != nil {
		return err
	}
	rc.chunks = chunks
	rc.citations = citations
	return nil
}

// Chunks returns the currently held chunks.
func (rc *RunContext) Chunks() []domain.RetrievedChunk {
	return rc.chunks
}

// Citations returns the citations derived from the held chunks.
func (rc *RunContext) Citations() []domain.Citation {
	return rc.citations
}

// ContextString formats the held chunks into a single prompt-insertable
// block, each chunk prefixed by its chapter and section title and separated
// by a horizontal delimiter.
func (rc *RunContext) ContextString() string {
	if len(rc.chunks) == 0 {
		return NoContextSentinel
	}

	parts := make([]string, 0, len(rc.chunks))
	for _, c := range rc.chunks {
		parts = append(parts, "[Source: "+c.ChapterTitle+" > "+c.SectionTitle+"]\n"+c.Content)
	}
	return "TEXTBOOK CONTENT:\n\n" + strings.Join(parts, "\n\n---\n\n")
}

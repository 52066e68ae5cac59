package domain

import (
	"fmt"
	"strings"
	"time"
)

// SnippetLength is the maximum citation snippet length in characters.
const SnippetLength = 150

// Snippet truncates content to SnippetLength characters, ellipsis-suffixed
// when truncated. Length is counted in runes, never bytes, so multibyte
// content is not cut mid-character.
func Snippet(content string) string {
	runes := []rune(content)
	if len(runes) <= SnippetLength {
		return content
	}
	return string(runes[:SnippetLength]) + "..."
}

// RetrievedChunk is the query-time reconstruction of a chunk from an index
// point, plus its similarity score. It lives only for the duration of one
// retrieval call and the run context that consumes it.
type RetrievedChunk struct {
	ID           string
	Content      string
	Chapter      string
	ChapterTitle string
	Section      string
	SectionTitle string
	PagePath     string
	ChunkIndex   int
	TokenCount   int
	CreatedAt    time.Time
	Heading      string
	Anchor       string

	// Score is the index's similarity score, unmodified.
	Score float64
}

// NewRetrievedChunk validates and constructs a retrieved chunk from an index
// payload. The score must lie in [0.0, 1.0]; anything else is a validation
// failure, not something to clamp.
func NewRetrievedChunk(id string, p PointPayload, score float64) (RetrievedChunk, error) {
	if strings.TrimSpace(p.Content) == "" {
		return RetrievedChunk{}, ErrEmptyChunk
	}
	if score < 0.0 || score > 1.0 {
		return RetrievedChunk{}, fmt.Errorf("%w: %g", ErrScoreOutOfRange, score)
	}
	return RetrievedChunk{
		ID:           id,
		Content:      p.Content,
		Chapter:      p.Chapter,
		ChapterTitle: p.ChapterTitle,
		Section:      p.Section,
		SectionTitle: p.SectionTitle,
		PagePath:     p.PagePath,
		ChunkIndex:   p.ChunkIndex,
		TokenCount:   p.TokenCount,
		CreatedAt:    p.CreatedAt,
		Heading:      p.Heading,
		Anchor:       p.Anchor,
		Score:        score,
	}, nil
}

// Citation is a user-facing pointer to a specific textbook location.
type Citation struct {
	Chapter string `json:"chapter"`
	Section string `json:"section"`

	// Title is heading-qualified ("Section Title > Heading") when the chunk
	// has a heading, otherwise the section title alone.
	Title string `json:"title"`

	// URL is the chunk's full page path, anchor included.
	URL string `json:"url"`

	RelevanceScore float64 `json:"relevance_score"`

	// Snippet is the first SnippetLength characters of the chunk content,
	// ellipsis-suffixed when truncated.
	Snippet string `json:"snippet"`
}

// NewCitation derives a citation from a retrieved chunk. The score range is
// enforced here again, independently of RetrievedChunk construction.
func NewCitation(c RetrievedChunk) (Citation, error) {
	if c.Score < 0.0 || c.Score > 1.0 {
		return Citation{}, fmt.Errorf("%w: %g", ErrScoreOutOfRange, c.Score)
	}
	title := c.SectionTitle
	if c.Heading != "" {
		title = c.SectionTitle + " > " + c.Heading
	}
	return Citation{
		Chapter:        c.Chapter,
		Section:        c.Section,
		Title:          title,
		URL:            c.PagePath,
		RelevanceScore: c.Score,
		Snippet:        Snippet(c.Content),
	}, nil
}

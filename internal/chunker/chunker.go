// Package chunker splits section text into overlapping, token-bounded
// chunks using an exact token-counting scheme.
package chunker

import (
	"fmt"
	"strings"

	"github.com/ahmergit/hackathon-physical-ai-textbook/internal/core/domain"
)

// DefaultChunkSize is the default maximum number of tokens per chunk.
const DefaultChunkSize = 512

// DefaultOverlap is the default number of overlapping tokens between
// consecutive chunks.
const DefaultOverlap = 64

// Encoding converts between text and token sequences. The same encoding
// must be used for chunking and for the embedding model's token budget.
type Encoding interface {
	// Encode tokenizes text into an ordered token sequence.
	Encode(text string) []int

	// Decode reconstructs text from a token sequence. Decode followed by
	// Encode is not guaranteed to be an identity for every tokenizer,
	// which is why chunk token counts are always re-measured.
	Decode(tokens []int) string
}

// Piece is one produced chunk: its text and the exact re-tokenized length
// of that text.
type Piece struct {
	Text       string
	TokenCount int
}

// Chunker produces token-bounded overlapping chunks.
type Chunker struct {
	enc       Encoding
	chunkSize int
	overlap   int
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithChunkSize sets the maximum tokens per chunk.
func WithChunkSize(size int) Option {
	return func(c *Chunker) { c.chunkSize = size }
}

// WithOverlap sets the token overlap between consecutive chunks.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) { c.overlap = overlap }
}

// New creates a chunker. The chunk size must be positive and the overlap
// non-negative and strictly smaller than the chunk size.
func New(enc Encoding, opts ...Option) (*Chunker, error) {
	if enc == nil {
		return nil, fmt.Errorf("%w: encoding is required", domain.ErrInvalidInput)
	}
	c := &Chunker{
		enc:       enc,
		chunkSize: DefaultChunkSize,
		overlap:   DefaultOverlap,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidInput, c.chunkSize)
	}
	if c.overlap < 0 || c.overlap >= c.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", domain.ErrInvalidInput, c.overlap, c.chunkSize)
	}
	return c, nil
}

// ChunkSize returns the configured maximum tokens per chunk.
func (c *Chunker) ChunkSize() int { return c.chunkSize }

// Split cuts text into overlapping token-bounded pieces.
//
// Text that fits within the chunk size is returned unchanged as a single
// piece, without a decode round-trip. Longer text is sliced on the token
// sequence: each piece takes the next chunkSize tokens and the offset
// advances by chunkSize-overlap, so consecutive pieces share exactly
// overlap tokens. Empty or whitespace-only text yields no pieces.
//
// Every piece's token count is the re-tokenized length of its final text.
// A count above the chunk size means the tokenizer and detokenizer disagree
// and is returned as a fatal error rather than an out-of-contract piece.
func (c *Chunker) Split(text string) ([]Piece, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	tokens := c.enc.Encode(text)
	if len(tokens) <= c.chunkSize {
		return []Piece{{Text: text, TokenCount: len(tokens)}}, nil
	}

	step := c.chunkSize - c.overlap
	pieces := make([]Piece, 0, (len(tokens)-c.overlap+step-1)/step)
	for start := 0; start < len(tokens); start += step {
		end := start + c.chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		pieceText := c.enc.Decode(tokens[start:end])
		count := len(c.enc.Encode(pieceText))
		if count > c.chunkSize {
			return nil, fmt.Errorf("%w: piece %d re-tokenized to %d tokens (max %d)",
				domain.ErrTokenBudgetExceeded, len(pieces), count, c.chunkSize)
		}
		pieces = append(pieces, Piece{Text: pieceText, TokenCount: count})
	}
	return pieces, nil
}

// CountTokens returns the exact token length of text.
func (c *Chunker) CountTokens(text string) int {
	return len(c.enc.Encode(text))
}

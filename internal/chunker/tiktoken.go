package chunker

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the tiktoken encoding matched to the
// text-embedding-3-small model family.
const DefaultEncoding = "cl100k_base"

// tiktokenEncoding adapts a tiktoken BPE to the Encoding interface.
type tiktokenEncoding struct {
	tk *tiktoken.Tiktoken
}

// NewTiktokenEncoding loads a tiktoken encoding by name.
func NewTiktokenEncoding(name string) (Encoding, error) {
	if name == "" {
		name = DefaultEncoding
	}
	tk, err := tiktoken.GetEncoding(name)
	if err != nil {
		return nil, fmt.Errorf("load encoding %q: %w", name, err)
	}
	return &tiktokenEncoding{tk: tk}, nil
}

func (e *tiktokenEncoding) Encode(text string) []int {
	return e.tk.Encode(text, nil, nil)
}

func (e *tiktokenEncoding) Decode(tokens []int) string {
	return e.tk.Decode(tokens)
}

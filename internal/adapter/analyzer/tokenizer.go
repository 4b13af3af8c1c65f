package analyzer

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tiktoken-go/tokenizer"
	"scribe/internal/port"
)

// TikTokenCounter counts tokens with a tiktoken encoding (cl100k_base by default).
type TikTokenCounter struct {
	enc      tokenizer.Codec
	fallback ApproxCounter
}

// NewTikTokenCounter creates a counter for the named encoding.
func NewTikTokenCounter(encoding string) (*TikTokenCounter, error) {
	if encoding == "" {
		encoding = string(tokenizer.Cl100kBase)
	}
	enc, err := tokenizer.Get(tokenizer.Encoding(encoding))
	if err != nil {
		return nil, fmt.Errorf("failed to load encoding %s: %w", encoding, err)
	}
	return &TikTokenCounter{enc: enc}, nil
}

// CountTokens returns the exact token count of text.
func (c *TikTokenCounter) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	ids, _, err := c.enc.Encode(text)
	if err != nil {
		return c.fallback.CountTokens(text)
	}
	return len(ids)
}

// ApproxCounter estimates tokens from word count when no encoding is available.
type ApproxCounter struct{}

// CountTokens returns an approximate token count for LLM budget estimation.
func (ApproxCounter) CountTokens(text string) int {
	words := splitWords(text)
	if len(words) == 0 {
		return 0
	}
	// Rough estimate: average word is about 1.3 tokens
	return int(float64(len(words)) * 1.3)
}

// NewCounter returns the counter for an encoding name; "approx" selects the
// word heuristic.
func NewCounter(encoding string) (port.TokenCounter, error) {
	if encoding == "approx" {
		return ApproxCounter{}, nil
	}
	c, err := NewTikTokenCounter(encoding)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// CountWords is the whitespace word count used to cost spreadsheet cells.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// splitWords splits text into words using unicode word boundaries.
func splitWords(text string) []string {
	var words []string
	var current strings.Builder

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			current.WriteRune(r)
		} else {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

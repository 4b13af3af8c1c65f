package chunker

import (
	"fmt"
	"strings"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
	"scribe/internal/domain"
	"scribe/internal/port"
)

// TextChunker packs sentences greedily into chunks under a token budget.
type TextChunker struct {
	counter   port.TokenCounter
	sentences *sentences.DefaultSentenceTokenizer
}

func NewTextChunker(counter port.TokenCounter) (*TextChunker, error) {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load sentence tokenizer: %w", err)
	}
	return &TextChunker{
		counter:   counter,
		sentences: tok,
	}, nil
}

// Sentences splits text into trimmed, non-empty sentences.
func (c *TextChunker) Sentences(text string) []string {
	var out []string
	for _, s := range c.sentences.Tokenize(text) {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		if t := strings.TrimSpace(text); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Split returns the chunks of text in order. A chunk is closed as soon as the
// next sentence would push it over budget; a sentence that is over budget on
// its own becomes a chunk by itself.
func (c *TextChunker) Split(docID, text string, budget int) []domain.Chunk {
	var chunks []domain.Chunk
	current := ""

	emit := func() {
		tokens := c.counter.CountTokens(current)
		chunks = append(chunks, domain.Chunk{
			DocID:     docID,
			Index:     len(chunks),
			Text:      current,
			Tokens:    tokens,
			Oversized: tokens > budget,
		})
	}

	for _, sentence := range c.Sentences(text) {
		if current == "" {
			current = sentence
			continue
		}
		candidate := current + " " + sentence
		if c.counter.CountTokens(candidate) > budget {
			emit()
			current = sentence
			continue
		}
		current = candidate
	}
	if current != "" {
		emit()
	}

	return chunks
}

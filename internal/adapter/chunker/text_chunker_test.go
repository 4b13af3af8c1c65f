package chunker

import (
	"strings"
	"testing"
)

// wordCounter costs one token per whitespace-separated word.
type wordCounter struct{}

func (wordCounter) CountTokens(text string) int {
	return len(strings.Fields(text))
}

func newTestTextChunker(t *testing.T) *TextChunker {
	t.Helper()
	c, err := NewTextChunker(wordCounter{})
	if err != nil {
		t.Fatalf("failed to create chunker: %v", err)
	}
	return c
}

func TestTextChunker_PacksSentences(t *testing.T) {
	c := newTestTextChunker(t)

	chunks := c.Split("doc.txt", "One two three. Four five six. Seven eight nine.", 6)

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %+v", len(chunks), chunks)
	}
	if chunks[0].Text != "One two three. Four five six." {
		t.Errorf("unexpected first chunk: %q", chunks[0].Text)
	}
	if chunks[1].Text != "Seven eight nine." {
		t.Errorf("unexpected second chunk: %q", chunks[1].Text)
	}
	for i, chunk := range chunks {
		if chunk.Index != i {
			t.Errorf("chunk %d has index %d", i, chunk.Index)
		}
		if chunk.DocID != "doc.txt" {
			t.Errorf("expected DocID 'doc.txt', got %q", chunk.DocID)
		}
		if chunk.Tokens > 6 {
			t.Errorf("chunk %d over budget: %d", i, chunk.Tokens)
		}
	}
}

func TestTextChunker_OversizedSentenceEmittedAlone(t *testing.T) {
	c := newTestTextChunker(t)

	text := "Hi there. Alpha beta gamma delta epsilon zeta eta theta. Bye now."
	chunks := c.Split("doc.txt", text, 3)

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d: %+v", len(chunks), chunks)
	}
	if chunks[0].Oversized || chunks[2].Oversized {
		t.Error("short chunks should not be flagged oversized")
	}
	if !chunks[1].Oversized {
		t.Error("expected middle chunk to be flagged oversized")
	}
	if chunks[1].Text != "Alpha beta gamma delta epsilon zeta eta theta." {
		t.Errorf("oversized sentence was altered: %q", chunks[1].Text)
	}
}

func TestTextChunker_Coverage(t *testing.T) {
	c := newTestTextChunker(t)

	text := `The committee met on Monday. It reviewed the budget for the next year.
Several members raised concerns about travel costs. The chair proposed a cap.
A vote was scheduled for the following week. The meeting closed at noon.`

	for _, budget := range []int{1, 5, 10, 20, 1000} {
		chunks := c.Split("minutes", text, budget)
		if len(chunks) == 0 {
			t.Fatalf("budget %d: expected chunks", budget)
		}

		var parts []string
		for _, chunk := range chunks {
			parts = append(parts, chunk.Text)
			if !chunk.Oversized && chunk.Tokens > budget {
				t.Errorf("budget %d: chunk over budget without oversized flag: %+v", budget, chunk)
			}
		}
		got := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
		want := strings.Join(strings.Fields(text), " ")
		if got != want {
			t.Errorf("budget %d: coverage mismatch\n got: %q\nwant: %q", budget, got, want)
		}
	}
}

func TestTextChunker_Empty(t *testing.T) {
	c := newTestTextChunker(t)

	if chunks := c.Split("doc", "   \n\t", 10); len(chunks) != 0 {
		t.Errorf("expected no chunks for blank text, got %d", len(chunks))
	}
}

func TestTextChunker_NoTerminalPunctuation(t *testing.T) {
	c := newTestTextChunker(t)

	chunks := c.Split("doc", "just a fragment without a full stop", 100)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Text != "just a fragment without a full stop" {
		t.Errorf("unexpected chunk text: %q", chunks[0].Text)
	}
}

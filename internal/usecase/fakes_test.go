package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"scribe/internal/domain"
)

// wordCounter charges one token per whitespace-separated word.
type wordCounter struct{}

func (wordCounter) CountTokens(text string) int {
	return len(strings.Fields(text))
}

type submission struct {
	templateID string
	content    string
}

// fakeClient answers every call with "<template>-<n>" unless reply is set.
type fakeClient struct {
	mu    sync.Mutex
	calls []submission
	reply func(templateID, content string) (string, error)
}

func (c *fakeClient) Submit(_ context.Context, templateID, content string, _ map[string]any) (string, error) {
	c.mu.Lock()
	c.calls = append(c.calls, submission{templateID, content})
	n := len(c.calls)
	c.mu.Unlock()

	if c.reply != nil {
		return c.reply(templateID, content)
	}
	return fmt.Sprintf("%s-%d", templateID, n), nil
}

func (c *fakeClient) ModelName() string { return "fake" }

func (c *fakeClient) callsFor(templateID string) []submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []submission
	for _, s := range c.calls {
		if s.templateID == templateID {
			out = append(out, s)
		}
	}
	return out
}

// pipeChunker splits text on "|" and ignores the budget.
type pipeChunker struct{}

func (pipeChunker) Split(docID, text string, budget int) []domain.Chunk {
	var out []domain.Chunk
	for i, part := range strings.Split(text, "|") {
		out = append(out, domain.Chunk{DocID: docID, Index: i, Text: part, Tokens: len(strings.Fields(part))})
	}
	return out
}

func (pipeChunker) SplitTable(docID string, table domain.Table, budget int) []domain.Chunk {
	var rows []string
	for _, r := range table.Rows {
		rows = append(rows, strings.Join(r, "\t"))
	}
	return []domain.Chunk{{DocID: docID, Text: strings.Join(rows, "\n")}}
}

type fakeExtractor struct {
	contents map[string]domain.Content
	errs     map[string]error
}

func (e *fakeExtractor) Extract(_ context.Context, doc domain.Document) (domain.Content, error) {
	if err, ok := e.errs[doc.Path]; ok {
		return nil, err
	}
	if c, ok := e.contents[doc.Path]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("no fixture for %s", doc.Path)
}

type fakeSink struct {
	mu          sync.Mutex
	notes       map[string]string
	summaries   map[string]string
	transcripts map[string][]domain.TranscriptLine
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		notes:       map[string]string{},
		summaries:   map[string]string{},
		transcripts: map[string][]domain.TranscriptLine{},
	}
}

func (s *fakeSink) WriteNotes(name, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[name] = text
	return "out/" + name, nil
}

func (s *fakeSink) WriteSummary(doc domain.Document, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[doc.ID] = text
	return "out/" + doc.Stem() + "-summary.txt", nil
}

func (s *fakeSink) WriteTranscript(doc domain.Document, lines []domain.TranscriptLine) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts[doc.ID] = lines
	return "out/" + doc.Stem() + "-transcript.txt", nil
}

// words returns n filler words.
func words(n int) string {
	return strings.TrimSpace(strings.Repeat("w ", n))
}

package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"

	"scribe/internal/adapter/prompt"
	"scribe/internal/domain"
	"scribe/internal/port"
)

const (
	foldDelimiter = "\n\n--\n\n"
	cacheVersion  = "v1"
)

// systemPrompter is implemented by model clients that can show the rendered
// system prompt, so its cost can be charged against the chunk budget.
type systemPrompter interface {
	SystemPrompt(templateID string, vars map[string]any) (string, error)
}

// Budget is the token split of a single model call.
type Budget struct {
	ContextLimit          int
	ReservedSummaryBudget int
}

// SummaryEngine condenses one document by folding its chunks through the
// document prompt, carrying the running summary forward.
type SummaryEngine struct {
	client  port.ModelClient
	counter port.TokenCounter
	text    port.TextChunker
	table   port.TableChunker
	budget  Budget
	cache   port.SummaryCache
	logger  *slog.Logger
}

func NewSummaryEngine(
	client port.ModelClient,
	counter port.TokenCounter,
	text port.TextChunker,
	table port.TableChunker,
	budget Budget,
) *SummaryEngine {
	return &SummaryEngine{
		client:  client,
		counter: counter,
		text:    text,
		table:   table,
		budget:  budget,
		logger:  slog.Default(),
	}
}

// WithCache makes the engine reuse summaries of identical chunk sequences.
func (e *SummaryEngine) WithCache(c port.SummaryCache) *SummaryEngine {
	e.cache = c
	return e
}

func (e *SummaryEngine) WithLogger(l *slog.Logger) *SummaryEngine {
	e.logger = l
	return e
}

// FoldContext is the user content of one fold.
func FoldContext(docID, running, chunk, query string) string {
	s := fmt.Sprintf("%s summary:\n\n%s%sNext chunk:\n\n%s", docID, running, foldDelimiter, chunk)
	if query != "" {
		s += foldDelimiter + "User query: " + query
	}
	return s
}

// ChunkBudget is what remains for chunk text once the model's output, the
// running summary, the fold framing and the system prompt are paid for.
func (e *SummaryEngine) ChunkBudget(docID, query string) (int, error) {
	used := e.counter.CountTokens(FoldContext(docID, "", "", query))
	if sp, ok := e.client.(systemPrompter); ok {
		system, err := sp.SystemPrompt(prompt.Document, nil)
		if err != nil {
			return 0, err
		}
		used += e.counter.CountTokens(system)
	}

	budget := e.budget.ContextLimit - 2*e.budget.ReservedSummaryBudget - used
	if budget <= 0 {
		return 0, fmt.Errorf("%w: context %d, reserved %d, framing %d",
			domain.ErrInvalidBudget, e.budget.ContextLimit, e.budget.ReservedSummaryBudget, used)
	}
	return budget, nil
}

// Chunks splits text or table content. Audio must be transcribed first.
func (e *SummaryEngine) Chunks(doc domain.Document, content domain.Content, query string) ([]domain.Chunk, error) {
	budget, err := e.ChunkBudget(doc.ID, query)
	if err != nil {
		return nil, err
	}

	switch c := content.(type) {
	case domain.TextContent:
		return e.text.Split(doc.ID, c.Text, budget), nil
	case domain.TableContent:
		return e.table.SplitTable(doc.ID, c.Table, budget), nil
	default:
		return nil, fmt.Errorf("%w: %T cannot be chunked", domain.ErrUnsupportedFormat, content)
	}
}

// Summarize returns an empty summary without calling the model when content
// has nothing in it.
func (e *SummaryEngine) Summarize(ctx context.Context, doc domain.Document, content domain.Content, query string) (domain.DocumentSummary, error) {
	result := domain.DocumentSummary{DocID: doc.ID}
	if domain.IsEmpty(content) {
		e.logger.Warn("document has no content", "doc", doc.ID)
		return result, nil
	}

	chunks, err := e.Chunks(doc, content, query)
	if err != nil {
		return result, err
	}
	for _, c := range chunks {
		if c.Oversized {
			e.logger.Warn("chunk exceeds budget", "doc", doc.ID, "chunk", c.Index, "tokens", c.Tokens)
		}
	}

	key := e.cacheKey(doc.ID, chunks, query)
	if e.cache != nil {
		if cached, ok, err := e.cache.Get(ctx, key); err != nil {
			e.logger.Warn("summary cache read failed", "doc", doc.ID, "error", err)
		} else if ok {
			e.logger.Debug("summary cache hit", "doc", doc.ID)
			result.Text = cached
			result.Tokens = e.counter.CountTokens(cached)
			return result, nil
		}
	}

	running := ""
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		out, err := e.client.Submit(ctx, prompt.Document, FoldContext(doc.ID, running, c.Text, query), nil)
		if err != nil {
			return result, fmt.Errorf("summarize %s chunk %d: %w", doc.ID, c.Index, err)
		}
		running = out
		e.logger.Debug("folded chunk", "doc", doc.ID, "chunk", c.Index, "of", len(chunks))
	}

	if e.cache != nil {
		if err := e.cache.Put(ctx, key, running); err != nil {
			e.logger.Warn("summary cache write failed", "doc", doc.ID, "error", err)
		}
	}

	result.Text = running
	result.Tokens = e.counter.CountTokens(running)
	return result, nil
}

func (e *SummaryEngine) cacheKey(docID string, chunks []domain.Chunk, query string) string {
	h := sha256.New()
	write := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	write(cacheVersion)
	write(e.client.ModelName())
	write(docID)
	write(query)
	write(strconv.Itoa(e.budget.ContextLimit))
	write(strconv.Itoa(e.budget.ReservedSummaryBudget))
	if sp, ok := e.client.(systemPrompter); ok {
		if system, err := sp.SystemPrompt(prompt.Document, nil); err == nil {
			write(system)
		}
	}
	for _, c := range chunks {
		write(c.Text)
	}
	return hex.EncodeToString(h.Sum(nil))
}

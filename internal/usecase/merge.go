package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"scribe/internal/adapter/prompt"
	"scribe/internal/domain"
	"scribe/internal/port"
)

// MergePlanner packs document summaries into budget-bounded chunks and folds
// them, in order, into the final notes.
type MergePlanner struct {
	client  port.ModelClient
	counter port.TokenCounter
	budget  Budget
	logger  *slog.Logger
}

func NewMergePlanner(client port.ModelClient, counter port.TokenCounter, budget Budget) *MergePlanner {
	return &MergePlanner{
		client:  client,
		counter: counter,
		budget:  budget,
		logger:  slog.Default(),
	}
}

func (p *MergePlanner) WithLogger(l *slog.Logger) *MergePlanner {
	p.logger = l
	return p
}

// Threshold is the exclusive upper bound on a merge chunk's token cost.
func (p *MergePlanner) Threshold() int {
	return p.budget.ContextLimit - p.budget.ReservedSummaryBudget
}

// MergeUnit labels one summary. Every unit but the last carries the
// delimiter that separates it from the next.
func MergeUnit(s domain.DocumentSummary, last bool) string {
	unit := s.DocID + " summary:\n" + s.Text
	if !last {
		unit += foldDelimiter
	}
	return unit
}

// Plan packs units greedily in order. A unit that does not fit starts a new
// chunk; a unit is never split, so one that is over the threshold alone makes
// an oversized chunk.
func (p *MergePlanner) Plan(summaries []domain.DocumentSummary) ([]domain.MergeChunk, error) {
	if len(summaries) == 0 {
		return nil, domain.ErrNoSummaries
	}
	threshold := p.Threshold()

	var chunks []domain.MergeChunk
	current := ""
	var docIDs []string

	push := func() {
		tokens := p.counter.CountTokens(current)
		chunks = append(chunks, domain.MergeChunk{
			Index:     len(chunks),
			Text:      current,
			Tokens:    tokens,
			DocIDs:    docIDs,
			Oversized: tokens >= threshold,
		})
		current = ""
		docIDs = nil
	}

	for i, s := range summaries {
		unit := MergeUnit(s, i == len(summaries)-1)
		if p.counter.CountTokens(current+unit) < threshold {
			current += unit
			docIDs = append(docIDs, s.DocID)
			continue
		}
		if current != "" {
			push()
		}
		current = unit
		docIDs = []string{s.DocID}
	}
	push()

	for _, c := range chunks {
		if c.Oversized {
			p.logger.Warn("merge chunk exceeds budget", "chunk", c.Index, "tokens", c.Tokens, "docs", c.DocIDs)
		}
	}
	return chunks, nil
}

// Merge makes one model call per merge chunk. With a single chunk its
// output is the result; otherwise each chunk is appended to the notes so
// far and the pair is condensed again.
func (p *MergePlanner) Merge(ctx context.Context, summaries []domain.DocumentSummary) (domain.FinalSummary, error) {
	chunks, err := p.Plan(summaries)
	if err != nil {
		return domain.FinalSummary{}, err
	}

	result := domain.FinalSummary{Chunks: len(chunks)}
	accumulated := ""
	for _, c := range chunks {
		if err := ctx.Err(); err != nil {
			return domain.FinalSummary{}, err
		}

		input := c.Text
		if accumulated != "" {
			input = accumulated + foldDelimiter + c.Text
		}
		out, err := p.client.Submit(ctx, prompt.Merge, input, nil)
		result.Calls++
		if err != nil {
			return domain.FinalSummary{}, fmt.Errorf("merge chunk %d of %d: %w", c.Index+1, len(chunks), err)
		}
		accumulated = out
		p.logger.Debug("merged chunk", "chunk", c.Index, "docs", len(c.DocIDs))
	}

	result.Text = accumulated
	return result, nil
}

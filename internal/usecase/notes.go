package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"scribe/internal/domain"
	"scribe/internal/port"
)

// NotesUseCase summarizes a batch of documents and merges the summaries into
// a single notes file.
type NotesUseCase struct {
	extractor   port.Extractor
	engine      *SummaryEngine
	planner     *MergePlanner
	transcriber *TranscribeUseCase
	sink        port.Sink
	concurrency int
	logger      *slog.Logger
}

func NewNotesUseCase(
	extractor port.Extractor,
	engine *SummaryEngine,
	planner *MergePlanner,
	transcriber *TranscribeUseCase,
	sink port.Sink,
	concurrency int,
) *NotesUseCase {
	if concurrency < 1 {
		concurrency = 1
	}
	return &NotesUseCase{
		extractor:   extractor,
		engine:      engine,
		planner:     planner,
		transcriber: transcriber,
		sink:        sink,
		concurrency: concurrency,
		logger:      slog.Default(),
	}
}

func (u *NotesUseCase) WithLogger(l *slog.Logger) *NotesUseCase {
	u.logger = l
	return u
}

// NotesOptions controls a single run.
type NotesOptions struct {
	Query        string
	NotesFile    string
	Intermediate bool
	// OnDocument, when set, is called once per input as it finishes.
	OnDocument func(path string, err error)
}

// DocumentFailure records an input that was skipped.
type DocumentFailure struct {
	Path string
	Err  error
}

// NotesResult contains the results of a notes run.
type NotesResult struct {
	Summaries   []domain.DocumentSummary
	Failed      []DocumentFailure
	Final       domain.FinalSummary
	OutputPath  string
	Transcripts []string
}

// Run summarizes paths concurrently and merges the successful summaries in
// input order. A failing document is recorded and skipped; a failing merge
// fails the run and leaves no notes file behind.
func (u *NotesUseCase) Run(ctx context.Context, paths []string, opts NotesOptions) (*NotesResult, error) {
	if opts.NotesFile == "" {
		opts.NotesFile = "notes.txt"
	}
	result := &NotesResult{}
	summaries := make([]*domain.DocumentSummary, len(paths))
	errs := make([]error, len(paths))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(u.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			summary, transcript, err := u.summarizeOne(ctx, path, opts)
			if err != nil {
				errs[i] = err
			} else {
				summaries[i] = &summary
			}
			if transcript != "" {
				mu.Lock()
				result.Transcripts = append(result.Transcripts, transcript)
				mu.Unlock()
			}
			if opts.OnDocument != nil {
				mu.Lock()
				opts.OnDocument(path, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return result, err
	}

	for i, path := range paths {
		if errs[i] != nil {
			u.logger.Warn("document skipped", "path", path, "error", errs[i])
			result.Failed = append(result.Failed, DocumentFailure{Path: path, Err: errs[i]})
			continue
		}
		result.Summaries = append(result.Summaries, *summaries[i])
	}
	if len(result.Summaries) == 0 {
		return result, domain.ErrNoSummaries
	}

	final, err := u.planner.Merge(ctx, result.Summaries)
	if err != nil {
		return result, err
	}
	result.Final = final

	out, err := u.sink.WriteNotes(opts.NotesFile, final.Text)
	if err != nil {
		return result, fmt.Errorf("failed to write notes: %w", err)
	}
	result.OutputPath = out
	return result, nil
}

// summarizeOne returns the summary and, for audio, the transcript path.
func (u *NotesUseCase) summarizeOne(ctx context.Context, path string, opts NotesOptions) (domain.DocumentSummary, string, error) {
	doc, err := domain.NewDocument(path)
	if err != nil {
		return domain.DocumentSummary{}, "", err
	}

	content, err := u.extractor.Extract(ctx, doc)
	if errors.Is(err, domain.ErrEmptyInput) {
		u.logger.Warn("document has no content", "doc", doc.ID)
		return domain.DocumentSummary{DocID: doc.ID}, "", nil
	}
	if err != nil {
		return domain.DocumentSummary{}, "", fmt.Errorf("extract %s: %w", doc.ID, err)
	}

	transcript := ""
	if a, ok := content.(domain.AudioContent); ok {
		if u.transcriber == nil {
			return domain.DocumentSummary{}, "", errors.New("no transcriber configured for audio input")
		}
		lines, err := u.transcriber.Transcribe(ctx, a.Path)
		if err != nil {
			return domain.DocumentSummary{}, "", fmt.Errorf("transcribe %s: %w", doc.ID, err)
		}
		transcript, err = u.sink.WriteTranscript(doc, lines)
		if err != nil {
			return domain.DocumentSummary{}, "", err
		}
		content = domain.TextContent{Text: domain.RenderTranscript(lines)}
	}

	summary, err := u.engine.Summarize(ctx, doc, content, opts.Query)
	if err != nil {
		return domain.DocumentSummary{}, transcript, err
	}

	if opts.Intermediate {
		if _, err := u.sink.WriteSummary(doc, summary.Text); err != nil {
			u.logger.Warn("failed to write intermediate summary", "doc", doc.ID, "error", err)
		}
	}
	return summary, transcript, nil
}

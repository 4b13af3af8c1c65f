package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"scribe/internal/adapter/audio"
	"scribe/internal/adapter/diarize"
	"scribe/internal/domain"
	"scribe/internal/port"
)

// wavSource yields a WAV file for an audio input; cleanup removes any temp
// file it created.
type wavSource interface {
	EnsureWAV(ctx context.Context, src string) (string, func(), error)
}

// TranscribeUseCase turns an audio file into speaker-attributed lines.
type TranscribeUseCase struct {
	converter   wavSource
	diarizer    port.Diarizer
	transcriber port.Transcriber
	segmenter   *audio.Segmenter
	minTurn     time.Duration
	concurrency int
	logger      *slog.Logger
}

func NewTranscribeUseCase(
	converter wavSource,
	diarizer port.Diarizer,
	transcriber port.Transcriber,
	segmenter *audio.Segmenter,
	minTurn time.Duration,
	concurrency int,
) *TranscribeUseCase {
	if concurrency < 1 {
		concurrency = 1
	}
	return &TranscribeUseCase{
		converter:   converter,
		diarizer:    diarizer,
		transcriber: transcriber,
		segmenter:   segmenter,
		minTurn:     minTurn,
		concurrency: concurrency,
		logger:      slog.Default(),
	}
}

func (u *TranscribeUseCase) WithLogger(l *slog.Logger) *TranscribeUseCase {
	u.logger = l
	return u
}

type segmentJob struct {
	speaker string
	start   int
	end     int
	stream  *audio.Stream
}

// Transcribe returns one line per transcribed segment in chronological order.
// A segment the backend fails on contributes an empty line.
func (u *TranscribeUseCase) Transcribe(ctx context.Context, path string) ([]domain.TranscriptLine, error) {
	wavPath, cleanup, err := u.converter.EnsureWAV(ctx, path)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	stream, err := audio.DecodeWAV(wavPath)
	if err != nil {
		return nil, err
	}

	turns, err := u.diarizer.Diarize(ctx, wavPath, stream.Duration())
	if err != nil {
		return nil, fmt.Errorf("diarize %s: %w", path, err)
	}
	turns = diarize.MergeTurns(turns, u.minTurn)

	jobs := u.plan(stream, turns)
	u.logger.Debug("transcribing", "file", path, "turns", len(turns), "segments", len(jobs))

	texts := make([]string, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			texts[i] = u.transcribeSegment(gctx, path, job)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines := make([]domain.TranscriptLine, len(jobs))
	for i, job := range jobs {
		lines[i] = domain.TranscriptLine{
			Speaker: job.speaker,
			Start:   audio.Milliseconds(job.start),
			End:     audio.Milliseconds(job.end),
			Text:    texts[i],
		}
	}
	return lines, nil
}

// plan splits each turn into segments that fit the transcription cap.
func (u *TranscribeUseCase) plan(stream *audio.Stream, turns []domain.Turn) []segmentJob {
	var jobs []segmentJob
	for _, t := range turns {
		startMs := int(t.Start.Milliseconds())
		turn := stream.Slice(startMs, int(t.End.Milliseconds()))
		for _, iv := range u.segmenter.Split(turn) {
			jobs = append(jobs, segmentJob{
				speaker: t.Speaker,
				start:   startMs + iv.Start,
				end:     startMs + iv.End,
				stream:  turn.Slice(iv.Start, iv.End),
			})
		}
	}
	return jobs
}

func (u *TranscribeUseCase) transcribeSegment(ctx context.Context, path string, job segmentJob) string {
	segPath, cleanup, err := audio.WriteTempWAV(job.stream)
	if err != nil {
		u.logger.Warn("segment dropped", "file", path, "start", job.start, "error", err)
		return ""
	}
	defer cleanup()

	text, err := u.transcriber.Transcribe(ctx, segPath)
	if err != nil {
		u.logger.Warn("segment dropped", "file", path, "start", job.start, "error", err)
		return ""
	}
	return text
}

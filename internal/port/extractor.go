package port

import (
	"context"
	"time"

	"scribe/internal/domain"
)

type Extractor interface {
	Extract(ctx context.Context, doc domain.Document) (domain.Content, error)
}

// Diarizer attributes the intervals of an audio file to speakers.
type Diarizer interface {
	Diarize(ctx context.Context, path string, duration time.Duration) ([]domain.Turn, error)
}

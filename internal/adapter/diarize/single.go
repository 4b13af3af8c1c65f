package diarize

import (
	"context"
	"time"

	"scribe/internal/domain"
)

// Single attributes the whole recording to one speaker.
type Single struct {
	Speaker string
}

func NewSingle(speaker string) *Single {
	if speaker == "" {
		speaker = "SPEAKER_00"
	}
	return &Single{Speaker: speaker}
}

func (s *Single) Diarize(ctx context.Context, _ string, duration time.Duration) ([]domain.Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if duration <= 0 {
		return nil, nil
	}
	return []domain.Turn{{Speaker: s.Speaker, Start: 0, End: duration}}, nil
}

// MergeTurns joins consecutive turns of the same speaker and then drops
// turns shorter than minTurn.
func MergeTurns(turns []domain.Turn, minTurn time.Duration) []domain.Turn {
	var merged []domain.Turn
	for _, t := range turns {
		if n := len(merged); n > 0 && merged[n-1].Speaker == t.Speaker {
			if t.End > merged[n-1].End {
				merged[n-1].End = t.End
			}
			continue
		}
		merged = append(merged, t)
	}

	out := merged[:0]
	for _, t := range merged {
		if t.Duration() < minTurn {
			continue
		}
		out = append(out, t)
	}
	return out
}

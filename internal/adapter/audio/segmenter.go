package audio

import (
	"time"
)

// Segmenter cuts a stream into pieces small enough for the transcription
// backend, splitting at the end of a speech run rather than mid-word.
type Segmenter struct {
	MaxBytes     int
	MinSilenceMs int
	ThresholdDB  float64
}

func NewSegmenter(maxBytes, minSilenceMs int, thresholdDB float64) *Segmenter {
	return &Segmenter{
		MaxBytes:     maxBytes,
		MinSilenceMs: minSilenceMs,
		ThresholdDB:  thresholdDB,
	}
}

// TargetMs is the longest duration of s that fits in MaxBytes.
func (g *Segmenter) TargetMs(s *Stream) int {
	rate := s.ByteRate()
	if rate <= 0 {
		return 0
	}
	return int(int64(g.MaxBytes) * 1000 / int64(rate))
}

// Split returns consecutive, non-overlapping ranges covering s. Each cut is
// placed at the latest end of a non-silent run that falls within the target
// duration; when there is none the remainder is returned whole.
func (g *Segmenter) Split(s *Stream) []Interval {
	total := s.DurationMs()
	if total == 0 {
		return nil
	}
	target := g.TargetMs(s)
	e := newEnergy(s)

	var out []Interval
	offset := 0
	for offset < total {
		if total-offset <= target {
			out = append(out, Interval{offset, total})
			break
		}

		split := 0
		for _, iv := range e.nonsilent(offset, total, g.MinSilenceMs, g.ThresholdDB) {
			if iv.End > target {
				break
			}
			split = iv.End
		}
		if split <= 0 {
			out = append(out, Interval{offset, total})
			break
		}

		out = append(out, Interval{offset, offset + split})
		offset += split
	}
	return out
}

// Milliseconds converts an interval bound to a duration.
func Milliseconds(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

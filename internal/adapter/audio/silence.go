package audio

import "math"

// Interval is a [Start, End) range in milliseconds.
type Interval struct {
	Start int
	End   int
}

// energy holds per-millisecond sums of squared samples for a stream so that
// the RMS of any whole-millisecond window is O(1).
type energy struct {
	prefix []float64
	counts []int
	ms     int
	maxAmp float64
}

func newEnergy(s *Stream) *energy {
	ms := s.DurationMs()
	e := &energy{
		prefix: make([]float64, ms+1),
		counts: make([]int, ms+1),
		ms:     ms,
		maxAmp: s.MaxAmplitude(),
	}
	for m := 0; m < ms; m++ {
		from := s.frameAt(m) * s.Channels
		to := s.frameAt(m+1) * s.Channels
		sum := 0.0
		for _, v := range s.Samples[from:to] {
			f := float64(v)
			sum += f * f
		}
		e.prefix[m+1] = e.prefix[m] + sum
		e.counts[m+1] = e.counts[m] + (to - from)
	}
	return e
}

func (e *energy) rms(from, to int) float64 {
	n := e.counts[to] - e.counts[from]
	if n == 0 {
		return 0
	}
	return math.Sqrt((e.prefix[to] - e.prefix[from]) / float64(n))
}

// nonsilent finds the louder-than-threshold ranges of [from, to), reported
// relative to from. A silence is any stretch of at least minSilenceMs whose
// RMS stays at or below threshDB (dBFS).
func (e *energy) nonsilent(from, to, minSilenceMs int, threshDB float64) []Interval {
	length := to - from
	if length <= 0 {
		return nil
	}
	if minSilenceMs <= 0 {
		minSilenceMs = 1
	}
	if length < minSilenceMs {
		return []Interval{{0, length}}
	}

	thresh := math.Pow(10, threshDB/20) * e.maxAmp

	var silent []Interval
	rangeStart, prev := -1, -1
	for i := 0; i <= length-minSilenceMs; i++ {
		if e.rms(from+i, from+i+minSilenceMs) > thresh {
			continue
		}
		switch {
		case prev < 0:
			rangeStart = i
		case i != prev+1 && i > prev+minSilenceMs:
			silent = append(silent, Interval{rangeStart, prev + minSilenceMs})
			rangeStart = i
		}
		prev = i
	}
	if prev >= 0 {
		silent = append(silent, Interval{rangeStart, prev + minSilenceMs})
	}

	if len(silent) == 0 {
		return []Interval{{0, length}}
	}

	var out []Interval
	prevEnd := 0
	for _, s := range silent {
		if s.Start > prevEnd {
			out = append(out, Interval{prevEnd, s.Start})
		}
		prevEnd = s.End
	}
	if prevEnd < length {
		out = append(out, Interval{prevEnd, length})
	}
	return out
}

// DetectNonsilent returns the non-silent ranges of s in milliseconds.
func DetectNonsilent(s *Stream, minSilenceMs int, threshDB float64) []Interval {
	e := newEnergy(s)
	return e.nonsilent(0, e.ms, minSilenceMs, threshDB)
}

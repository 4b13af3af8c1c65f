package audio

import "time"

// Stream is decoded PCM audio with interleaved integer samples.
type Stream struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Samples    []int
}

// Frames is the number of sample frames (one sample per channel).
func (s *Stream) Frames() int {
	if s.Channels == 0 {
		return 0
	}
	return len(s.Samples) / s.Channels
}

// DurationMs is the stream length in whole milliseconds.
func (s *Stream) DurationMs() int {
	if s.SampleRate == 0 {
		return 0
	}
	return s.Frames() * 1000 / s.SampleRate
}

func (s *Stream) Duration() time.Duration {
	if s.SampleRate == 0 {
		return 0
	}
	return time.Duration(s.Frames()) * time.Second / time.Duration(s.SampleRate)
}

// ByteRate is the encoded size of one second of this stream.
func (s *Stream) ByteRate() int {
	return s.SampleRate * s.Channels * (s.BitDepth / 8)
}

// MaxAmplitude is the largest magnitude a sample can take at this bit depth.
// An unknown depth is treated as 16-bit.
func (s *Stream) MaxAmplitude() float64 {
	if s.BitDepth <= 0 {
		return float64(int64(1) << 15)
	}
	return float64(int64(1) << (s.BitDepth - 1))
}

func (s *Stream) frameAt(ms int) int {
	f := ms * s.SampleRate / 1000
	if f > s.Frames() {
		f = s.Frames()
	}
	if f < 0 {
		f = 0
	}
	return f
}

// Slice returns the [startMs, endMs) portion. Samples are shared, not copied.
func (s *Stream) Slice(startMs, endMs int) *Stream {
	from := s.frameAt(startMs) * s.Channels
	to := s.frameAt(endMs) * s.Channels
	if to < from {
		to = from
	}
	return &Stream{
		SampleRate: s.SampleRate,
		Channels:   s.Channels,
		BitDepth:   s.BitDepth,
		Samples:    s.Samples[from:to],
	}
}

package audio

import (
	"os"
	"path/filepath"
	"testing"
)

// tone builds a mono 16-bit stream at 1 kHz: a square wave everywhere except
// the given silent ranges (in ms).
func tone(totalMs int, silent ...Interval) *Stream {
	return toneAt(16, 8000, totalMs, silent...)
}

func toneAt(bitDepth, amp, totalMs int, silent ...Interval) *Stream {
	s := &Stream{SampleRate: 1000, Channels: 1, BitDepth: bitDepth}
	s.Samples = make([]int, totalMs)
	for i := range s.Samples {
		quiet := false
		for _, iv := range silent {
			if i >= iv.Start && i < iv.End {
				quiet = true
			}
		}
		if quiet {
			continue
		}
		if i%2 == 0 {
			s.Samples[i] = amp
		} else {
			s.Samples[i] = -amp
		}
	}
	return s
}

func TestSegmenter_SplitsAtSilenceBeforeTarget(t *testing.T) {
	s := tone(70_000, Interval{35_000, 36_000})
	// 2000 bytes per second, so 80000 bytes is a 40s target
	g := NewSegmenter(80_000, 450, -40)

	if got := g.TargetMs(s); got != 40_000 {
		t.Fatalf("expected 40000ms target, got %d", got)
	}

	segments := g.Split(s)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d: %v", len(segments), segments)
	}
	if segments[0] != (Interval{0, 35_000}) {
		t.Errorf("expected first segment [0,35000), got %v", segments[0])
	}
	if segments[1] != (Interval{35_000, 70_000}) {
		t.Errorf("expected second segment [35000,70000), got %v", segments[1])
	}
}

func TestSegmenter_NoSilenceReturnsWhole(t *testing.T) {
	s := tone(70_000)
	g := NewSegmenter(80_000, 450, -40)

	segments := g.Split(s)
	if len(segments) != 1 || segments[0] != (Interval{0, 70_000}) {
		t.Errorf("expected single whole segment, got %v", segments)
	}
}

func TestSegmenter_ShorterThanTarget(t *testing.T) {
	s := tone(10_000, Interval{5_000, 6_000})
	g := NewSegmenter(80_000, 450, -40)

	segments := g.Split(s)
	if len(segments) != 1 || segments[0] != (Interval{0, 10_000}) {
		t.Errorf("expected single whole segment, got %v", segments)
	}
}

func TestSegmenter_SegmentsAreContiguous(t *testing.T) {
	s := tone(100_000,
		Interval{10_000, 11_000},
		Interval{25_000, 26_000},
		Interval{45_000, 46_000},
		Interval{70_000, 71_000},
	)
	// 20s target
	g := NewSegmenter(40_000, 450, -40)

	segments := g.Split(s)
	if len(segments) < 2 {
		t.Fatalf("expected several segments, got %v", segments)
	}
	if segments[0].Start != 0 || segments[len(segments)-1].End != 100_000 {
		t.Errorf("segments do not cover the stream: %v", segments)
	}
	for i := 1; i < len(segments); i++ {
		if segments[i].Start != segments[i-1].End {
			t.Errorf("gap or overlap between %v and %v", segments[i-1], segments[i])
		}
	}
	if segments[0] != (Interval{0, 10_000}) {
		t.Errorf("expected first cut at 10000ms, got %v", segments[0])
	}
}

func TestDetectNonsilent(t *testing.T) {
	s := tone(10_000, Interval{3_000, 4_000})

	got := DetectNonsilent(s, 450, -40)
	want := []Interval{{0, 3_000}, {4_000, 10_000}}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("interval %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestDetectNonsilent_ShortGapIgnored(t *testing.T) {
	s := tone(5_000, Interval{2_000, 2_200})

	got := DetectNonsilent(s, 450, -40)
	if len(got) != 1 || got[0] != (Interval{0, 5_000}) {
		t.Errorf("expected one run, got %v", got)
	}
}

func TestWAVRoundTrip(t *testing.T) {
	s := tone(2_000, Interval{500, 1_000})
	path := filepath.Join(t.TempDir(), "tone.wav")

	if err := WriteWAV(path, s); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	got, err := DecodeWAV(path)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.SampleRate != 1000 || got.Channels != 1 || got.BitDepth != 16 {
		t.Errorf("unexpected format: %+v", got)
	}
	if got.DurationMs() != 2_000 {
		t.Errorf("expected 2000ms, got %d", got.DurationMs())
	}
}

func TestWAV8BitSilenceIsCentered(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone8.wav")
	if err := WriteWAV(path, toneAt(8, 100, 70_000, Interval{35_000, 36_000})); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	s, err := DecodeWAV(path)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if s.BitDepth != 8 || s.Samples[35_500] != 0 || s.Samples[0] != 100 || s.Samples[1] != -100 {
		t.Fatalf("expected signed samples centered on zero, got depth %d samples %v %v %v",
			s.BitDepth, s.Samples[0], s.Samples[1], s.Samples[35_500])
	}

	// 1000 bytes per second, so 40000 bytes is a 40s target
	segments := NewSegmenter(40_000, 450, -40).Split(s)
	want := []Interval{{0, 35_000}, {35_000, 70_000}}
	if len(segments) != len(want) {
		t.Fatalf("expected %v, got %v", want, segments)
	}
	for i := range want {
		if segments[i] != want[i] {
			t.Errorf("segment %d: expected %v, got %v", i, want[i], segments[i])
		}
	}
}

func TestWAV8BitWritesUnsigned(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiet8.wav")
	if err := WriteWAV(path, toneAt(8, 0, 100)); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if last := raw[len(raw)-1]; last != 128 {
		t.Errorf("expected silence stored as 128, got %d", last)
	}
}

func TestMaxAmplitude(t *testing.T) {
	tests := []struct {
		depth int
		want  float64
	}{
		{8, 128},
		{16, 32768},
		{24, 8388608},
		{0, 32768},
		{-1, 32768},
	}
	for _, tt := range tests {
		s := &Stream{BitDepth: tt.depth}
		if got := s.MaxAmplitude(); got != tt.want {
			t.Errorf("depth %d: expected %v, got %v", tt.depth, tt.want, got)
		}
	}
}

func TestStreamSlice(t *testing.T) {
	s := tone(10_000)
	part := s.Slice(2_000, 5_000)
	if part.DurationMs() != 3_000 {
		t.Errorf("expected 3000ms slice, got %d", part.DurationMs())
	}
}

package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Converter turns non-WAV audio into 16-bit PCM WAV with ffmpeg.
type Converter struct {
	FFmpegPath string
}

func NewConverter(ffmpegPath string) *Converter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Converter{FFmpegPath: ffmpegPath}
}

// EnsureWAV returns a WAV path for src. When src is already WAV it is
// returned as is; otherwise a temp file is produced and cleanup removes it.
func (c *Converter) EnsureWAV(ctx context.Context, src string) (string, func(), error) {
	if strings.EqualFold(filepath.Ext(src), ".wav") {
		return src, func() {}, nil
	}

	f, err := os.CreateTemp("", "scribe-convert-*.wav")
	if err != nil {
		return "", func() {}, err
	}
	out := f.Name()
	f.Close()
	cleanup := func() { os.Remove(out) }

	cmd := exec.CommandContext(ctx, c.FFmpegPath, "-y", "-i", src, "-acodec", "pcm_s16le", out)
	if output, err := cmd.CombinedOutput(); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("ffmpeg conversion of %s failed: %w: %s", src, err, lastLine(output))
	}
	return out, cleanup, nil
}

func lastLine(b []byte) string {
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	return lines[len(lines)-1]
}

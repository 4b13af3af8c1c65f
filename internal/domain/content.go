package domain

import (
	"fmt"
	"strings"
	"time"
)

// Content is what an extractor yields for a document. It is one of
// TextContent, TableContent or AudioContent.
type Content interface {
	isContent()
}

type TextContent struct {
	Text string
}

type TableContent struct {
	Table Table
}

// AudioContent points at the audio file still to be transcribed.
type AudioContent struct {
	Path string
}

func (TextContent) isContent()  {}
func (TableContent) isContent() {}
func (AudioContent) isContent() {}

// IsEmpty reports whether content carries nothing to summarize.
func IsEmpty(c Content) bool {
	switch v := c.(type) {
	case TextContent:
		return strings.TrimSpace(v.Text) == ""
	case TableContent:
		return len(v.Table.Rows) == 0
	case AudioContent:
		return v.Path == ""
	}
	return true
}

// FormatTimestamp renders d as HH:MM:SS.mmm.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	ms := d.Milliseconds()
	h := ms / 3_600_000
	m := (ms % 3_600_000) / 60_000
	s := (ms % 60_000) / 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms%1000)
}

// RenderTranscript writes lines as "speaker: start --> end" headers followed
// by the text. Lines without text are skipped.
func RenderTranscript(lines []TranscriptLine) string {
	var b strings.Builder
	for _, l := range lines {
		text := strings.TrimSpace(l.Text)
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "%s: %s --> %s\n", l.Speaker, FormatTimestamp(l.Start), FormatTimestamp(l.End))
		b.WriteString(text)
		b.WriteString("\n\n")
	}
	return b.String()
}

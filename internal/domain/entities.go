package domain

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"
)

// Kind is the closed set of document formats the pipeline accepts.
type Kind int

const (
	KindText Kind = iota
	KindPDF
	KindWord
	KindSpreadsheet
	KindAudio
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindPDF:
		return "pdf"
	case KindWord:
		return "word"
	case KindSpreadsheet:
		return "spreadsheet"
	case KindAudio:
		return "audio"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

var kindBySuffix = map[string]Kind{
	".txt":      KindText,
	".text":     KindText,
	".md":       KindText,
	".markdown": KindText,
	".pdf":      KindPDF,
	".docx":     KindWord,
	".xlsx":     KindSpreadsheet,
	".xlsm":     KindSpreadsheet,
	".wav":      KindAudio,
	".mp3":      KindAudio,
	".m4a":      KindAudio,
	".ogg":      KindAudio,
	".flac":     KindAudio,
	".webm":     KindAudio,
	".mpga":     KindAudio,
}

// KindOf resolves a path to its Kind by suffix, falling back to the
// registered mime type for audio files.
func KindOf(path string) (Kind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if k, ok := kindBySuffix[ext]; ok {
		return k, nil
	}
	if strings.HasPrefix(mime.TypeByExtension(ext), "audio/") {
		return KindAudio, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Document is one input file. ID is the label used in prompts and output names.
type Document struct {
	ID   string
	Path string
	Kind Kind
}

func NewDocument(path string) (Document, error) {
	kind, err := KindOf(path)
	if err != nil {
		return Document{}, err
	}
	return Document{
		ID:   filepath.Base(path),
		Path: path,
		Kind: kind,
	}, nil
}

// Stem returns the document name without its extension.
func (d Document) Stem() string {
	return strings.TrimSuffix(d.ID, filepath.Ext(d.ID))
}

// Table is a spreadsheet sheet: a header row plus data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// Chunk is a budget-bounded piece of one document.
// Oversized is set when a single sentence or row alone exceeds the budget.
type Chunk struct {
	DocID     string
	Index     int
	Text      string
	Tokens    int
	Oversized bool
}

type DocumentSummary struct {
	DocID  string
	Text   string
	Tokens int
}

// MergeChunk is a group of labelled summaries packed under the merge threshold.
type MergeChunk struct {
	Index     int
	Text      string
	Tokens    int
	DocIDs    []string
	Oversized bool
}

type FinalSummary struct {
	Text   string
	Chunks int
	Calls  int
}

// Turn is a diarized interval attributed to one speaker.
type Turn struct {
	Speaker string
	Start   time.Duration
	End     time.Duration
}

func (t Turn) Duration() time.Duration {
	return t.End - t.Start
}

type TranscriptLine struct {
	Speaker string
	Start   time.Duration
	End     time.Duration
	Text    string
}

package port

import "scribe/internal/domain"

// Sink persists the run's artifacts and returns the written path.
type Sink interface {
	WriteNotes(name, text string) (string, error)
	WriteSummary(doc domain.Document, text string) (string, error)
	WriteTranscript(doc domain.Document, lines []domain.TranscriptLine) (string, error)
}

package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat      = errors.New("unsupported format")
	ErrEmptyInput             = errors.New("document has no extractable content")
	ErrPromptTemplateNotFound = errors.New("prompt template not found")
	ErrTranscriptionFailed    = errors.New("transcription returned no text")
	ErrModelUnavailable       = errors.New("model unavailable")
	ErrNoSummaries            = errors.New("no summaries to merge")
	ErrInvalidBudget          = errors.New("token budget exhausted by reserved space")
)

// ExternalServiceError is returned once a model or transcription call has
// used up its retry attempts.
type ExternalServiceError struct {
	Op       string
	Attempts int
	Err      error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Op, e.Attempts, e.Err)
}

func (e *ExternalServiceError) Unwrap() []error {
	return []error{ErrModelUnavailable, e.Err}
}

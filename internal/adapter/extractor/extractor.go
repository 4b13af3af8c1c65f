package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"scribe/internal/domain"
)

// Registry dispatches extraction on the document's Kind.
type Registry struct{}

func NewRegistry() *Registry {
	return &Registry{}
}

// Extract returns the document's content. A document with nothing to
// summarize fails with domain.ErrEmptyInput.
func (r *Registry) Extract(ctx context.Context, doc domain.Document) (domain.Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := r.extract(doc)
	if err != nil {
		return nil, err
	}
	if domain.IsEmpty(content) {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyInput, doc.ID)
	}
	return content, nil
}

func (r *Registry) extract(doc domain.Document) (domain.Content, error) {
	switch doc.Kind {
	case domain.KindText:
		if isMarkdown(doc.Path) {
			return extractMarkdown(doc.Path)
		}
		return extractPlain(doc.Path)
	case domain.KindPDF:
		return extractPDF(doc.Path)
	case domain.KindWord:
		return extractDocx(doc.Path)
	case domain.KindSpreadsheet:
		return extractSheet(doc.Path)
	case domain.KindAudio:
		if _, err := os.Stat(doc.Path); err != nil {
			return nil, err
		}
		return domain.AudioContent{Path: doc.Path}, nil
	}
	return nil, fmt.Errorf("%w: %s (%s)", domain.ErrUnsupportedFormat, doc.Path, doc.Kind)
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

func extractPlain(path string) (domain.Content, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return domain.TextContent{Text: string(data)}, nil
}

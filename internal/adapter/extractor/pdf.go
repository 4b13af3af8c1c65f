package extractor

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
	"scribe/internal/domain"
)

func extractPDF(path string) (domain.Content, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("failed to read pdf text %s: %w", path, err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return nil, err
	}
	return domain.TextContent{Text: buf.String()}, nil
}

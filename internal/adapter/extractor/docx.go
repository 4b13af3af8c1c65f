package extractor

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"scribe/internal/domain"
)

// extractDocx reads the paragraphs of word/document.xml, one per line.
func extractDocx(path string) (domain.Content, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open docx %s: %w", path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		text, err := docxParagraphs(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse docx %s: %w", path, err)
		}
		return domain.TextContent{Text: text}, nil
	}
	return nil, fmt.Errorf("%w: %s has no word/document.xml", domain.ErrUnsupportedFormat, path)
}

func docxParagraphs(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var paragraphs []string
	var cur strings.Builder
	inText := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				cur.WriteByte('\t')
			case "br", "cr":
				cur.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				paragraphs = append(paragraphs, cur.String())
				cur.Reset()
			}
		case xml.CharData:
			if inText {
				cur.Write(t)
			}
		}
	}
	if cur.Len() > 0 {
		paragraphs = append(paragraphs, cur.String())
	}
	return strings.Join(paragraphs, "\n"), nil
}

package extractor

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	"scribe/internal/domain"
)

func mustDocument(t *testing.T, path string) domain.Document {
	t.Helper()
	doc, err := domain.NewDocument(path)
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestExtract_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("First line.\nSecond line."), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := NewRegistry().Extract(context.Background(), mustDocument(t, path))
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := c.(domain.TextContent)
	if !ok {
		t.Fatalf("expected TextContent, got %T", c)
	}
	if tc.Text != "First line.\nSecond line." {
		t.Errorf("unexpected text %q", tc.Text)
	}
}

func TestExtract_Markdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	src := "# Title\n\nSome *emphasis* and `code`.\n\n- item one\n- item two\n\n```\nfmt.Println(1)\n```\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := NewRegistry().Extract(context.Background(), mustDocument(t, path))
	if err != nil {
		t.Fatal(err)
	}
	text := c.(domain.TextContent).Text
	for _, want := range []string{"Title", "Some emphasis and code.", "item one", "item two", "fmt.Println(1)"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in %q", want, text)
		}
	}
	if strings.Contains(text, "#") || strings.Contains(text, "*") {
		t.Errorf("markup not stripped: %q", text)
	}
}

func writeDocx(t *testing.T, path, body string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`
	if _, err := w.Write([]byte(doc)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	f.Close()
}

func TestExtract_Docx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minutes.docx")
	writeDocx(t, path,
		`<w:p><w:r><w:t>Agenda</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t xml:space="preserve">Budget </w:t></w:r><w:r><w:t>review</w:t></w:r></w:p>`)

	c, err := NewRegistry().Extract(context.Background(), mustDocument(t, path))
	if err != nil {
		t.Fatal(err)
	}
	if got := c.(domain.TextContent).Text; got != "Agenda\nBudget review" {
		t.Errorf("unexpected text %q", got)
	}
}

func TestExtract_Spreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	f.SetSheetRow(sheet, "A1", &[]any{"Region", "Revenue"})
	f.SetSheetRow(sheet, "A2", &[]any{"North", 10})
	f.SetSheetRow(sheet, "A4", &[]any{"South", 20})
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	f.Close()

	c, err := NewRegistry().Extract(context.Background(), mustDocument(t, path))
	if err != nil {
		t.Fatal(err)
	}
	table := c.(domain.TableContent).Table
	if strings.Join(table.Header, ",") != "Region,Revenue" {
		t.Errorf("unexpected header %v", table.Header)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows (blank row dropped), got %v", table.Rows)
	}
	if table.Rows[1][0] != "South" || table.Rows[1][1] != "20" {
		t.Errorf("unexpected row %v", table.Rows[1])
	}
}

func TestExtract_AudioPassesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "call.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := NewRegistry().Extract(context.Background(), mustDocument(t, path))
	if err != nil {
		t.Fatal(err)
	}
	if ac, ok := c.(domain.AudioContent); !ok || ac.Path != path {
		t.Errorf("expected AudioContent for %s, got %#v", path, c)
	}
}

func TestExtract_UnknownKind(t *testing.T) {
	doc := domain.Document{ID: "x", Path: "x.bin", Kind: domain.Kind(99)}
	_, err := NewRegistry().Extract(context.Background(), doc)
	if !errors.Is(err, domain.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExtract_InvalidPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewRegistry().Extract(context.Background(), mustDocument(t, path)); err == nil {
		t.Error("expected error for invalid pdf")
	}
}

func TestExtract_EmptyInput(t *testing.T) {
	dir := t.TempDir()
	blank := filepath.Join(dir, "blank.txt")
	if err := os.WriteFile(blank, []byte(" \n\t\n"), 0644); err != nil {
		t.Fatal(err)
	}

	sheet := filepath.Join(dir, "header-only.xlsx")
	f := excelize.NewFile()
	f.SetSheetRow(f.GetSheetName(0), "A1", &[]any{"Region", "Revenue"})
	if err := f.SaveAs(sheet); err != nil {
		t.Fatal(err)
	}
	f.Close()

	for _, path := range []string{blank, sheet} {
		c, err := NewRegistry().Extract(context.Background(), mustDocument(t, path))
		if !errors.Is(err, domain.ErrEmptyInput) {
			t.Errorf("%s: expected ErrEmptyInput, got %v (%#v)", filepath.Base(path), err, c)
		}
	}
}

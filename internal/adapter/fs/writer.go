package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"scribe/internal/domain"
)

// OutputDir writes run artifacts under a single directory.
type OutputDir struct {
	dir string
}

func NewOutputDir(dir string) *OutputDir {
	return &OutputDir{dir: dir}
}

func (o *OutputDir) Dir() string {
	return o.dir
}

func (o *OutputDir) WriteNotes(name, text string) (string, error) {
	return o.write(name, text)
}

func (o *OutputDir) WriteSummary(doc domain.Document, text string) (string, error) {
	return o.write(doc.Stem()+"-summary.txt", text)
}

func (o *OutputDir) WriteTranscript(doc domain.Document, lines []domain.TranscriptLine) (string, error) {
	return o.write(doc.Stem()+"-transcript.txt", domain.RenderTranscript(lines))
}

func (o *OutputDir) write(name, text string) (string, error) {
	path := filepath.Join(o.dir, name)
	if err := WriteFileAtomic(path, []byte(text)); err != nil {
		return "", err
	}
	return path, nil
}

// WriteFileAtomic writes data to a temp file next to path and renames it into
// place, so readers never observe a partial file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ReadFile returns the contents of path as a string.
func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

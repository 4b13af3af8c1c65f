package prompt

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"scribe/internal/domain"
)

//go:embed templates/*.prompt
var builtin embed.FS

const (
	Document = "document"
	Merge    = "merge"
)

// Store resolves prompt templates by id. Files in dir named <id>.prompt take
// precedence over the built-in templates.
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Render executes the template with vars, e.g. {"max_length": 500}.
func (s *Store) Render(templateID string, vars map[string]any) (string, error) {
	raw, err := s.load(templateID)
	if err != nil {
		return "", err
	}

	tmpl, err := template.New(templateID).Option("missingkey=error").Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", templateID, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", templateID, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// IDs lists the built-in template ids.
func (s *Store) IDs() []string {
	entries, _ := builtin.ReadDir("templates")
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, strings.TrimSuffix(e.Name(), ".prompt"))
	}
	return ids
}

func (s *Store) load(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return "", fmt.Errorf("%w: %q", domain.ErrPromptTemplateNotFound, id)
	}

	if s.dir != "" {
		data, err := os.ReadFile(filepath.Join(s.dir, id+".prompt"))
		if err == nil {
			return string(data), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to read template %s: %w", id, err)
		}
	}

	data, err := builtin.ReadFile("templates/" + id + ".prompt")
	if err != nil {
		return "", fmt.Errorf("%w: %q", domain.ErrPromptTemplateNotFound, id)
	}
	return string(data), nil
}

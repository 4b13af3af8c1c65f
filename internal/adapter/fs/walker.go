package fs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Walker turns --doc arguments into a list of files. An argument may be a
// file, a directory (walked recursively) or a doublestar glob.
type Walker struct {
	includes []string
	excludes []string
}

func NewWalker(includes, excludes []string) *Walker {
	if len(includes) == 0 {
		includes = []string{"**/*"}
	}
	return &Walker{
		includes: includes,
		excludes: excludes,
	}
}

// Expand resolves patterns in order, dropping duplicates. A pattern that
// matches nothing is an error.
func (w *Walker) Expand(patterns []string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		if !seen[abs] {
			seen[abs] = true
			out = append(out, path)
		}
	}

	for _, pattern := range patterns {
		info, err := os.Stat(pattern)
		switch {
		case err == nil && info.IsDir():
			files, err := w.Walk(pattern)
			if err != nil {
				return nil, err
			}
			for _, f := range files {
				add(f)
			}
		case err == nil:
			add(pattern)
		default:
			matches, gerr := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
			if gerr != nil {
				return nil, fmt.Errorf("bad pattern %q: %w", pattern, gerr)
			}
			if len(matches) == 0 {
				return nil, fmt.Errorf("no files match %q", pattern)
			}
			sort.Strings(matches)
			for _, m := range matches {
				add(m)
			}
		}
	}
	return out, nil
}

// Walk returns the files under root accepted by the include and exclude
// patterns, in lexical order.
func (w *Walker) Walk(root string) ([]string, error) {
	var files []string

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath != "." && w.shouldExclude(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if w.shouldInclude(relPath) && !w.shouldExclude(relPath) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

func (w *Walker) shouldInclude(path string) bool {
	for _, pattern := range w.includes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (w *Walker) shouldExclude(path string) bool {
	for _, pattern := range w.excludes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

package port

// FileWalker expands files, directories and glob patterns into input paths.
type FileWalker interface {
	Expand(patterns []string) ([]string, error)
}

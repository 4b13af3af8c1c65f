package port

import "scribe/internal/domain"

type TextChunker interface {
	Split(docID, text string, budget int) []domain.Chunk
}

type TableChunker interface {
	SplitTable(docID string, table domain.Table, budget int) []domain.Chunk
}

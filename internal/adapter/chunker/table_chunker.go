package chunker

import (
	"strings"

	"scribe/internal/adapter/analyzer"
	"scribe/internal/domain"
)

// TableChunker groups spreadsheet rows under a budget. Row cost is the
// whitespace word count of its cells, not the tokenizer count. Every group
// restates the header and is charged for it.
type TableChunker struct {
	cost func(string) int
}

func NewTableChunker() *TableChunker {
	return &TableChunker{cost: analyzer.CountWords}
}

func (c *TableChunker) SplitTable(docID string, table domain.Table, budget int) []domain.Chunk {
	headerCost := c.rowCost(table.Header)

	var chunks []domain.Chunk
	var rows [][]string
	running := 0

	emit := func() {
		chunks = append(chunks, domain.Chunk{
			DocID:     docID,
			Index:     len(chunks),
			Text:      renderRows(table.Header, rows),
			Tokens:    running + headerCost,
			Oversized: running+headerCost > budget,
		})
	}

	for _, row := range table.Rows {
		if isBlankRow(row) {
			continue
		}
		cost := c.rowCost(row)
		if len(rows) > 0 && running+cost+headerCost > budget {
			emit()
			rows = nil
			running = 0
		}
		rows = append(rows, row)
		running += cost
	}
	if len(rows) > 0 {
		emit()
	}

	return chunks
}

func (c *TableChunker) rowCost(cells []string) int {
	total := 0
	for _, cell := range cells {
		total += c.cost(cell)
	}
	return total
}

func renderRows(header []string, rows [][]string) string {
	lines := make([]string, 0, len(rows)+1)
	if !isBlankRow(header) {
		lines = append(lines, strings.Join(header, "\t"))
	}
	for _, row := range rows {
		lines = append(lines, strings.Join(row, "\t"))
	}
	return strings.Join(lines, "\n")
}

func isBlankRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

package extractor

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"scribe/internal/domain"
)

// extractSheet reads the first sheet. The first non-blank row is the header;
// blank rows are dropped.
func extractSheet(path string) (domain.Content, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return domain.TableContent{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}

	var table domain.Table
	for _, row := range rows {
		if blank(row) {
			continue
		}
		if table.Header == nil {
			table.Header = row
			continue
		}
		table.Rows = append(table.Rows, row)
	}
	return domain.TableContent{Table: table}, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

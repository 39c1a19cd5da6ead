package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/couchcryptid/nonprofit-etl/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Reader extracts the first worksheet of an .xlsx workbook. It implements
// pipeline.Extractor.
type Reader struct {
	path string
}

// NewReader creates a reader for the workbook at path.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// Extract returns the first non-blank row of the first sheet as the header
// and every following non-blank row as data. Cell values are the formatted
// strings Excel would display.
func (r *Reader) Extract(_ context.Context) (domain.Table, error) {
	if _, err := os.Stat(r.path); errors.Is(err, fs.ErrNotExist) {
		return domain.Table{}, fmt.Errorf("%w: %s", domain.ErrInputNotFound, r.path)
	}

	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return domain.Table{}, fmt.Errorf("opening Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return domain.Table{}, domain.ErrEmptyInput
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return domain.Table{}, fmt.Errorf("reading rows: %w", err)
	}

	table := domain.Table{Source: r.path}
	for _, row := range rows {
		if isBlank(row) {
			continue
		}
		if table.Header == nil {
			table.Header = row
			continue
		}
		table.Rows = append(table.Rows, domain.RawRow(row))
	}

	if table.Header == nil {
		return domain.Table{}, domain.ErrEmptyInput
	}
	return table, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

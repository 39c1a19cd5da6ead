package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/couchcryptid/nonprofit-etl/internal/domain"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Reader extracts a delimited text table. It implements pipeline.Extractor.
type Reader struct {
	path  string
	comma rune
}

// NewReader creates a reader for the file at path using comma as the field
// delimiter.
func NewReader(path string, comma rune) *Reader {
	return &Reader{path: path, comma: comma}
}

// Extract reads the header row and every data row. A leading UTF-8 byte
// order mark is dropped so it never leaks into the first header name. Rows
// may have differing field counts.
func (r *Reader) Extract(_ context.Context) (domain.Table, error) {
	f, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Table{}, fmt.Errorf("%w: %s", domain.ErrInputNotFound, r.path)
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	return readTable(r.path, f, r.comma)
}

func readTable(source string, in io.Reader, comma rune) (domain.Table, error) {
	decoded := transform.NewReader(in, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	reader := csv.NewReader(decoded)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return domain.Table{}, domain.ErrEmptyInput
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("reading CSV header: %w", err)
	}

	table := domain.Table{Source: source, Header: header}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return domain.Table{}, fmt.Errorf("reading CSV row: %w", err)
		}
		table.Rows = append(table.Rows, domain.RawRow(row))
	}

	return table, nil
}

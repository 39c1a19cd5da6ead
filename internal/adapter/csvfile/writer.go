package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/couchcryptid/nonprofit-etl/internal/domain"
)

// Writer writes normalized records as a delimited text table with the fixed
// output header and CRLF line endings. It implements pipeline.Loader.
type Writer struct {
	path  string
	comma rune
}

// NewWriter creates a writer for the file at path.
func NewWriter(path string, comma rune) *Writer {
	return &Writer{path: path, comma: comma}
}

// Load creates (or truncates) the output file and writes the header row
// followed by one row per record.
func (w *Writer) Load(_ context.Context, records []domain.Nonprofit) (err error) {
	f, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()

	return writeTable(f, records, w.comma)
}

// Name identifies the loader in logs.
func (w *Writer) Name() string {
	return "csv:" + w.path
}

func writeTable(out io.Writer, records []domain.Nonprofit, comma rune) error {
	cw := csv.NewWriter(out)
	cw.Comma = comma
	cw.UseCRLF = true

	if err := cw.Write(domain.OutputHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for i := range records {
		if err := cw.Write(records[i].Values()); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return nil
}

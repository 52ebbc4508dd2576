package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/handiism/suno-downloader/internal/model"
)

// ErrTableNotFound is returned when the table file does not exist.
var ErrTableNotFound = errors.New("table file not found")

// tableColumns is the number of fields in a usable row:
// filename, url, description.
const tableColumns = 3

// Table reads records from a local CSV file.
//
// The first row is a header and is discarded. Rows that do not have
// exactly three fields are dropped without notice.
type Table struct {
	path string
}

// NewTable creates a Table reading from path.
func NewTable(path string) *Table {
	return &Table{path: path}
}

// Path returns the file the table reads from.
func (t *Table) Path() string {
	return t.path
}

// Records reads the whole table.
func (t *Table) Records(ctx context.Context) ([]model.Record, error) {
	f, err := os.Open(t.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, t.path)
		}
		return nil, fmt.Errorf("open table: %w", err)
	}
	defer f.Close()

	return readTable(ctx, f)
}

func readTable(ctx context.Context, r io.Reader) ([]model.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true

	// Header
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read table header: %w", err)
	}

	var records []model.Record
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read table: %w", err)
		}
		if len(row) != tableColumns {
			continue
		}

		records = append(records, model.Record{
			Filename:    row[0],
			URL:         row[1],
			Description: row[2],
		})
	}

	return records, nil
}

package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/aouyang1/go-pricecast/rawtable"
)

// CSVFetcher reads a local export of the price table. The file is returned as a single table
// with its first row as the header.
type CSVFetcher struct {
	Path  string
	Comma rune
}

func NewCSVFetcher(path string, comma rune) *CSVFetcher {
	if comma == 0 {
		comma = ','
	}
	return &CSVFetcher{Path: path, Comma: comma}
}

func (c *CSVFetcher) FetchTables(ctx context.Context) ([]rawtable.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	f, err := os.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = c.Comma
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to read %s, %w: %w", c.Path, ErrFetch, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s is empty, %w", c.Path, ErrFetch)
	}
	return []rawtable.Table{rawtable.Table(records)}, nil
}

// Package source fetches the raw tables a price series is read from.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/aouyang1/go-pricecast/rawtable"
)

var ErrFetch = errors.New("fetch error")

// Fetcher returns every table found at a source in document order
type Fetcher interface {
	FetchTables(ctx context.Context) ([]rawtable.Table, error)
}

// Select returns the table at the positional index
func Select(tables []rawtable.Table, index int) (rawtable.Table, error) {
	if index < 0 || index >= len(tables) {
		return nil, fmt.Errorf("table index %d requested but %d tables found, %w", index, len(tables), ErrFetch)
	}
	return tables[index], nil
}

// Static serves fixed in-memory tables
type Static []rawtable.Table

// FetchTables returns a copy of the tables
func (s Static) FetchTables(ctx context.Context) ([]rawtable.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if len(s) == 0 {
		return nil, fmt.Errorf("no tables, %w", ErrFetch)
	}
	tables := make([]rawtable.Table, len(s))
	copy(tables, s)
	return tables, nil
}

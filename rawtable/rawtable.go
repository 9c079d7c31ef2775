// Package rawtable converts a scraped two column (date, price) table into a validated
// timedataset.TimeSeries.
package rawtable

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/aouyang1/go-pricecast/timedataset"
	"github.com/shopspring/decimal"
)

var ErrParse = errors.New("parse error")

const (
	// DateLayout is the day/month/year layout used by the source page
	DateLayout = "02/01/2006"

	// PriceScale is the number of implied decimal places in the source price text
	PriceScale = 2

	dateCol  = 0
	priceCol = 1
)

// Table is a raw two dimensional table of cell text as scraped from a page. Row 0 is the header.
type Table [][]string

// Header returns the first row of the table if present
func (t Table) Header() []string {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// Normalize discards the header row, parses the date and price columns, and returns the series
// sorted by date. Malformed cells fail with ErrParse while duplicate dates or non-positive
// prices fail with timedataset.ErrValidation.
func Normalize(table Table) (*timedataset.TimeSeries, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("table has no header row, %w", ErrParse)
	}

	points := make([]timedataset.ObservedPoint, 0, len(table)-1)
	for i, row := range table[1:] {
		rowNum := i + 1
		if len(row) <= priceCol {
			return nil, fmt.Errorf("row %d has %d cells, expected at least %d, %w", rowNum, len(row), priceCol+1, ErrParse)
		}

		date, err := ParseDate(row[dateCol])
		if err != nil {
			return nil, fmt.Errorf("row %d, %w", rowNum, err)
		}
		price, err := ParsePrice(row[priceCol])
		if err != nil {
			return nil, fmt.Errorf("row %d, %w", rowNum, err)
		}
		points = append(points, timedataset.ObservedPoint{Date: date, Price: price})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Date.Before(points[j].Date)
	})

	return timedataset.New(points)
}

// ParseDate parses a day/month/year date cell into a UTC calendar date
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, %w", s, ErrParse)
	}
	return d, nil
}

// ParsePrice parses an integer scaled price cell, e.g. "4500" is 45.00. Commas are treated as
// thousands separators and stripped, so the page's "45,00" reads as 4500.
func ParsePrice(s string) (decimal.Decimal, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty price, %w", ErrParse)
	}
	for i, r := range cleaned {
		if r == '-' && i == 0 {
			continue
		}
		if r < '0' || r > '9' {
			return decimal.Zero, fmt.Errorf("invalid price %q, %w", s, ErrParse)
		}
	}

	scaled, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q, %w", s, ErrParse)
	}
	return scaled.Shift(-PriceScale), nil
}

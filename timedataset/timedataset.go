// Package timedataset holds the canonical daily price series used across the pipeline along
// with the chronological train/test split.
package timedataset

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrValidation  = errors.New("validation error")
	ErrEmptySeries = errors.New("empty series")
)

// ObservedPoint is a single daily price observation
type ObservedPoint struct {
	Date  time.Time       `json:"date"`
	Price decimal.Decimal `json:"price"`
}

// TimeSeries is an immutable sequence of observed points with strictly increasing, unique
// calendar dates and positive prices. Use New to construct one.
type TimeSeries struct {
	points []ObservedPoint
}

// New validates and copies the input points into a TimeSeries. Dates are truncated to UTC
// calendar days. Points must already be chronologically ordered.
func New(points []ObservedPoint) (*TimeSeries, error) {
	p := make([]ObservedPoint, len(points))
	var lastT time.Time
	for i, pnt := range points {
		d := Day(pnt.Date)
		if i > 0 && !d.After(lastT) {
			if d.Equal(lastT) {
				return nil, fmt.Errorf("duplicate date %s at %d, %w", d.Format(time.DateOnly), i, ErrValidation)
			}
			return nil, fmt.Errorf("out of order date %s at %d, %w", d.Format(time.DateOnly), i, ErrValidation)
		}
		if !pnt.Price.IsPositive() {
			return nil, fmt.Errorf("non-positive price %s at %s, %w", pnt.Price, d.Format(time.DateOnly), ErrValidation)
		}
		p[i] = ObservedPoint{Date: d, Price: pnt.Price}
		lastT = d
	}
	return &TimeSeries{points: p}, nil
}

// Len returns the number of observations
func (ts *TimeSeries) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.points)
}

// Points returns a copy of the observations
func (ts *TimeSeries) Points() []ObservedPoint {
	if ts == nil {
		return nil
	}
	p := make([]ObservedPoint, len(ts.points))
	copy(p, ts.points)
	return p
}

// At returns the i-th observation
func (ts *TimeSeries) At(i int) ObservedPoint {
	return ts.points[i]
}

// Times returns the observation dates
func (ts *TimeSeries) Times() []time.Time {
	if ts == nil {
		return nil
	}
	t := make([]time.Time, len(ts.points))
	for i, p := range ts.points {
		t[i] = p.Date
	}
	return t
}

// Floats returns the prices as float64 for model consumption
func (ts *TimeSeries) Floats() []float64 {
	if ts == nil {
		return nil
	}
	y := make([]float64, len(ts.points))
	for i, p := range ts.points {
		y[i] = p.Price.InexactFloat64()
	}
	return y
}

// Start returns the first date in the series or the zero time if empty
func (ts *TimeSeries) Start() time.Time {
	return TimeSlice(ts.Times()).StartTime()
}

// End returns the last date in the series or the zero time if empty
func (ts *TimeSeries) End() time.Time {
	return TimeSlice(ts.Times()).EndTime()
}

// PriceRange returns the minimum and maximum price of the series
func (ts *TimeSeries) PriceRange() (decimal.Decimal, decimal.Decimal, error) {
	if ts.Len() == 0 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("no price range, %w: %w", ErrEmptySeries, ErrValidation)
	}
	lo, hi := ts.points[0].Price, ts.points[0].Price
	for _, p := range ts.points[1:] {
		lo = decimal.Min(lo, p.Price)
		hi = decimal.Max(hi, p.Price)
	}
	return lo, hi, nil
}

// Slice returns a new series of the points in [i, j)
func (ts *TimeSeries) Slice(i, j int) *TimeSeries {
	p := make([]ObservedPoint, j-i)
	copy(p, ts.points[i:j])
	return &TimeSeries{points: p}
}

// After returns a new series with only the points strictly after the cutoff date
func (ts *TimeSeries) After(cutoff time.Time) *TimeSeries {
	p := make([]ObservedPoint, 0, ts.Len())
	for _, pnt := range ts.points {
		if pnt.Date.After(cutoff) {
			p = append(p, pnt)
		}
	}
	return &TimeSeries{points: p}
}

package pricecast

import (
	"errors"
	"fmt"
	"time"

	"github.com/aouyang1/go-pricecast/overlay"
)

var ErrInvalidOptions = errors.New("invalid pipeline options")

const (
	DefaultTableIndex   = 2
	DefaultTestFraction = 0.05
	DefaultHorizonDays  = 365
	DefaultWindowLength = 365
)

var (
	DefaultHistoryCutoff  = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	DefaultForecastCutoff = time.Date(2024, 11, 19, 0, 0, 0, 0, time.UTC)
)

// Options configures a pipeline run
type Options struct {
	// TableIndex is the position of the price table among every table of the source
	TableIndex int `json:"table_index"`

	// TestFraction of the series, taken from the end, is held out from the fit
	TestFraction float64 `json:"test_fraction"`

	// HorizonDays is the number of calendar days forecast past the last training date
	HorizonDays int `json:"horizon_days"`

	// WindowLength bounds the rows of both display tables
	WindowLength int `json:"window_length"`

	// ForecastTableFutureOnly drops in-sample rows from the forecast table before it is bounded
	ForecastTableFutureOnly bool `json:"forecast_table_future_only"`

	// HistoryCutoff and ForecastCutoff restrict the chart lines to dates strictly after them
	HistoryCutoff  time.Time `json:"history_cutoff"`
	ForecastCutoff time.Time `json:"forecast_cutoff"`

	// Events are drawn on the chart in the given order
	Events []overlay.Event `json:"events"`
}

// NewDefaultOptions returns the options of the brent dashboard
func NewDefaultOptions() *Options {
	return &Options{
		TableIndex:              DefaultTableIndex,
		TestFraction:            DefaultTestFraction,
		HorizonDays:             DefaultHorizonDays,
		WindowLength:            DefaultWindowLength,
		ForecastTableFutureOnly: true,
		HistoryCutoff:           DefaultHistoryCutoff,
		ForecastCutoff:          DefaultForecastCutoff,
		Events:                  overlay.DefaultEvents(),
	}
}

// Validate checks the options for values no run could succeed with
func (o *Options) Validate() error {
	if o.TableIndex < 0 {
		return fmt.Errorf("table index %d, %w", o.TableIndex, ErrInvalidOptions)
	}
	if o.TestFraction <= 0 || o.TestFraction >= 1 {
		return fmt.Errorf("test fraction %.3f not in (0, 1), %w", o.TestFraction, ErrInvalidOptions)
	}
	if o.HorizonDays < 0 {
		return fmt.Errorf("horizon of %d days, %w", o.HorizonDays, ErrInvalidOptions)
	}
	if o.WindowLength < 0 {
		return fmt.Errorf("window length %d, %w", o.WindowLength, ErrInvalidOptions)
	}
	seen := make(map[string]struct{}, len(o.Events))
	for _, ev := range o.Events {
		if ev.Label == "" || ev.Date.IsZero() {
			return fmt.Errorf("event %q at %s, %w", ev.Label, ev.Date, ErrInvalidOptions)
		}
		if _, exists := seen[ev.Label]; exists {
			return fmt.Errorf("duplicate event %q, %w", ev.Label, ErrInvalidOptions)
		}
		seen[ev.Label] = struct{}{}
	}
	return nil
}

// Package pricecast runs the daily commodity price pipeline: a raw scraped table is normalized
// into a price series, split chronologically, forecast over a daily horizon and projected into
// the history table, the forecast table and the annotated chart series.
package pricecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aouyang1/go-pricecast/forecast"
	"github.com/aouyang1/go-pricecast/overlay"
	"github.com/aouyang1/go-pricecast/rawtable"
	"github.com/aouyang1/go-pricecast/source"
	"github.com/aouyang1/go-pricecast/timedataset"
	"github.com/aouyang1/go-pricecast/window"
)

var ErrNoSource = errors.New("no source provided")

// Pipeline wires a table source and a forecasting backend. Every run builds its values from
// scratch so a Pipeline can be run repeatedly.
type Pipeline struct {
	src    source.Fetcher
	engine *forecast.Engine
	opt    *Options
}

// New creates a pipeline. If no options are provided the defaults are used.
func New(src source.Fetcher, fitter forecast.Fitter, opt *Options) (*Pipeline, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	engine, err := forecast.NewEngine(fitter)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		src:    src,
		engine: engine,
		opt:    opt,
	}, nil
}

// Options returns the options the pipeline runs with
func (p *Pipeline) Options() Options {
	return *p.opt
}

// Run executes every stage in order. Any failure aborts the run and no partial result is
// returned.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	tables, err := p.src.FetchTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch tables, %w", err)
	}
	table, err := source.Select(tables, p.opt.TableIndex)
	if err != nil {
		return nil, err
	}

	series, err := rawtable.Normalize(table)
	if err != nil {
		return nil, fmt.Errorf("unable to normalize table, %w", err)
	}
	slog.Info("normalized price series",
		"points", series.Len(),
		"start", series.Start().Format(time.DateOnly),
		"end", series.End().Format(time.DateOnly),
	)

	split, err := timedataset.ChronologicalSplit(series, p.opt.TestFraction)
	if err != nil {
		return nil, fmt.Errorf("unable to split series, %w", err)
	}

	fitStart := time.Now()
	fc, err := p.engine.FitAndForecast(ctx, split.Train, p.opt.HorizonDays)
	if err != nil {
		return nil, fmt.Errorf("unable to forecast, %w", err)
	}
	slog.Info("fit forecast",
		"train", split.Train.Len(),
		"test", split.Test.Len(),
		"points", fc.Len(),
		"duration", time.Since(fitStart),
	)

	scores, err := forecast.Evaluate(fc, split.Test)
	if err != nil {
		slog.Warn("skipping holdout evaluation", "error", err)
		scores = nil
	} else {
		slog.Info("holdout evaluation", "samples", scores.Samples, "mape", scores.MAPE, "mse", scores.MSE)
	}

	markers, err := overlay.Resolve(p.opt.Events, series)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve events, %w", err)
	}

	res := &Result{
		GeneratedAt:   time.Now().UTC(),
		Series:        series,
		Split:         split,
		Forecast:      fc,
		HoldoutScores: scores,
		History:       window.History(series, p.opt.WindowLength),
		ForecastTable: window.Forecast(fc, p.opt.WindowLength, p.opt.ForecastTableFutureOnly),
		Chart: Chart{
			History:  historyLine(series.After(p.opt.HistoryCutoff)),
			Forecast: forecastLine(fc.After(p.opt.ForecastCutoff)),
			Markers:  markers,
		},
	}
	slog.Info("pipeline complete",
		"history_rows", res.History.Len(),
		"forecast_rows", res.ForecastTable.Len(),
		"markers", len(markers),
		"duration", time.Since(start),
	)
	return res, nil
}

package pricecast

import (
	"time"

	"github.com/aouyang1/go-pricecast/forecast"
	"github.com/aouyang1/go-pricecast/overlay"
	"github.com/aouyang1/go-pricecast/timedataset"
	"github.com/aouyang1/go-pricecast/window"
)

// ChartPoint is a single (date, value) pair of a chart line
type ChartPoint struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// Chart holds the cutoff filtered history and forecast lines with the event markers
type Chart struct {
	History  []ChartPoint     `json:"history"`
	Forecast []ChartPoint     `json:"forecast"`
	Markers  []overlay.Marker `json:"markers"`
}

// Result is the complete output of a successful run
type Result struct {
	GeneratedAt time.Time `json:"generated_at"`

	Series   *timedataset.TimeSeries `json:"-"`
	Split    timedataset.Split       `json:"-"`
	Forecast *forecast.Forecast      `json:"-"`

	// HoldoutScores compares the forecast to the held out test series when their dates overlap
	HoldoutScores *forecast.Scores `json:"holdout_scores,omitempty"`

	History       window.HistoryWindow  `json:"history_table"`
	ForecastTable window.ForecastWindow `json:"forecast_table"`
	Chart         Chart                 `json:"chart"`
}

func historyLine(series *timedataset.TimeSeries) []ChartPoint {
	line := make([]ChartPoint, 0, series.Len())
	for _, p := range series.Points() {
		line = append(line, ChartPoint{Date: p.Date, Value: p.Price.InexactFloat64()})
	}
	return line
}

func forecastLine(points []forecast.ForecastPoint) []ChartPoint {
	line := make([]ChartPoint, 0, len(points))
	for _, p := range points {
		line = append(line, ChartPoint{Date: p.Date, Value: p.Point})
	}
	return line
}

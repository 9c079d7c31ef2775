// Package overlay resolves labeled market events into chart primitives spanning the observed
// price range.
package overlay

import (
	"fmt"
	"time"

	"github.com/aouyang1/go-pricecast/timedataset"
	"github.com/shopspring/decimal"
)

// Event is a labeled point in time to mark on the chart
type Event struct {
	Label string    `json:"label" yaml:"label"`
	Date  time.Time `json:"date" yaml:"date"`
}

// VerticalLine spans YMin to YMax at X
type VerticalLine struct {
	X    time.Time       `json:"x"`
	YMin decimal.Decimal `json:"y_min"`
	YMax decimal.Decimal `json:"y_max"`
}

// Annotation is text anchored at a chart coordinate
type Annotation struct {
	X    time.Time       `json:"x"`
	Y    decimal.Decimal `json:"y"`
	Text string          `json:"text"`
}

// Marker is the rendering of a single event
type Marker struct {
	Label      string       `json:"label"`
	Line       VerticalLine `json:"line"`
	Annotation Annotation   `json:"annotation"`
}

// DefaultEvents are the market shocks shown on the brent dashboard
func DefaultEvents() []Event {
	return []Event{
		{Label: "Ataques na Arábia Saudita (2019)", Date: time.Date(2019, 9, 14, 0, 0, 0, 0, time.UTC)},
		{Label: "Pandemia de COVID-19 (2020)", Date: time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Label: "Conflito Rússia-Ucrânia (2022)", Date: time.Date(2022, 2, 24, 0, 0, 0, 0, time.UTC)},
		{Label: "Aumento de Produção Saudita (2023)", Date: time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)},
	}
}

// Resolve builds one marker per event in input order. Each line spans the minimum to maximum
// price of the series and the annotation sits at the maximum. Events outside the series date
// range still produce a marker.
func Resolve(events []Event, series *timedataset.TimeSeries) ([]Marker, error) {
	lo, hi, err := series.PriceRange()
	if err != nil {
		return nil, fmt.Errorf("unable to resolve %d events, %w", len(events), err)
	}

	markers := make([]Marker, 0, len(events))
	for _, ev := range events {
		d := timedataset.Day(ev.Date)
		markers = append(markers, Marker{
			Label: ev.Label,
			Line: VerticalLine{
				X:    d,
				YMin: lo,
				YMax: hi,
			},
			Annotation: Annotation{
				X:    d,
				Y:    hi,
				Text: ev.Label,
			},
		})
	}
	return markers, nil
}

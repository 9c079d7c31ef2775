// Package window derives the bounded history and forecast tables handed to the presentation
// layer. Rows are sliced and re-keyed to the display column names, never recomputed.
package window

import (
	"strconv"
	"time"

	"github.com/aouyang1/go-pricecast/forecast"
	"github.com/aouyang1/go-pricecast/timedataset"
	"github.com/shopspring/decimal"
)

// Display column names
const (
	ColDate     = "Data"
	ColPrice    = "Preço"
	ColForecast = "Previsão"
	ColLower    = "Minimo"
	ColUpper    = "Maximo"
)

// Table is a display table with named columns and formatted cells
type Table interface {
	Columns() []string
	Records() [][]string
	Len() int
}

// HistoryRow is an observed price keyed by display name
type HistoryRow struct {
	Date  time.Time       `json:"Data"`
	Price decimal.Decimal `json:"Preço"`
}

// HistoryWindow is the leading slice of the full observed series
type HistoryWindow struct {
	Rows []HistoryRow `json:"rows"`
}

// History returns the first count points of the series. A shorter series yields every point and
// a non-positive count yields an empty window.
func History(series *timedataset.TimeSeries, count int) HistoryWindow {
	n := min(max(count, 0), series.Len())
	rows := make([]HistoryRow, 0, n)
	for i := 0; i < n; i++ {
		p := series.At(i)
		rows = append(rows, HistoryRow{Date: p.Date, Price: p.Price})
	}
	return HistoryWindow{Rows: rows}
}

func (w HistoryWindow) Len() int {
	return len(w.Rows)
}

func (w HistoryWindow) Columns() []string {
	return []string{ColDate, ColPrice}
}

func (w HistoryWindow) Records() [][]string {
	records := make([][]string, 0, len(w.Rows))
	for _, r := range w.Rows {
		records = append(records, []string{r.Date.Format(time.DateOnly), r.Price.StringFixed(2)})
	}
	return records
}

// ForecastRow is a forecast point keyed by display name
type ForecastRow struct {
	Date     time.Time `json:"Data"`
	Forecast float64   `json:"Previsão"`
	Lower    float64   `json:"Minimo"`
	Upper    float64   `json:"Maximo"`
}

// ForecastWindow is the trailing slice of a forecast
type ForecastWindow struct {
	Rows []ForecastRow `json:"rows"`
}

// Forecast returns the last count points of the forecast. When futureOnly is set the in-sample
// points at or before the training end are excluded before slicing.
func Forecast(fc *forecast.Forecast, count int, futureOnly bool) ForecastWindow {
	var points []forecast.ForecastPoint
	if fc != nil {
		points = fc.Points
		if futureOnly {
			points = fc.Future()
		}
	}

	n := min(max(count, 0), len(points))
	rows := make([]ForecastRow, 0, n)
	for _, p := range points[len(points)-n:] {
		rows = append(rows, ForecastRow{
			Date:     p.Date,
			Forecast: p.Point,
			Lower:    p.Lower,
			Upper:    p.Upper,
		})
	}
	return ForecastWindow{Rows: rows}
}

func (w ForecastWindow) Len() int {
	return len(w.Rows)
}

func (w ForecastWindow) Columns() []string {
	return []string{ColDate, ColForecast, ColLower, ColUpper}
}

func (w ForecastWindow) Records() [][]string {
	records := make([][]string, 0, len(w.Rows))
	for _, r := range w.Rows {
		records = append(records, []string{
			r.Date.Format(time.DateOnly),
			formatFloat(r.Forecast),
			formatFloat(r.Lower),
			formatFloat(r.Upper),
		})
	}
	return records
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

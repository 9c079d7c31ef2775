package dashboard

import (
	"time"

	"github.com/aouyang1/go-pricecast"
	"github.com/aouyang1/go-pricecast/overlay"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

func lineData(points []pricecast.ChartPoint) []opts.LineData {
	data := make([]opts.LineData, 0, len(points))
	for _, p := range points {
		data = append(data, opts.LineData{Value: []interface{}{p.Date.Format(time.DateOnly), p.Value}})
	}
	return data
}

func markerData(m overlay.Marker) []opts.LineData {
	x := m.Line.X.Format(time.DateOnly)
	return []opts.LineData{
		{Value: []interface{}{x, m.Line.YMin.InexactFloat64()}},
		{Value: []interface{}{x, m.Line.YMax.InexactFloat64()}},
	}
}

// LinePrice generates an echart line chart of the history and forecast lines with a dotted
// vertical line and annotation per event
func LinePrice(chart pricecast.Chart, opt *Options) *charts.Line {
	opt = opt.withDefaults()

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(
			opts.Initialization{
				PageTitle:  opt.PageTitle,
				AssetsHost: opt.AssetsHost,
				Width:      opt.Width,
				Height:     opt.Height,
			},
		),
		charts.WithTitleOpts(
			opts.Title{
				Title: opt.ChartTitle,
			},
		),
		charts.WithXAxisOpts(opts.XAxis{Type: "time", Name: opt.XAxisName}),
		charts.WithYAxisOpts(opts.YAxis{Name: opt.YAxisName, Scale: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Orient: "horizontal", Bottom: "0"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}),
	)

	line.AddSeries(opt.HistoryLabel, lineData(chart.History),
		charts.WithLineStyleOpts(opts.LineStyle{Color: opt.HistoryColor}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: opt.HistoryColor}),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)
	line.AddSeries(opt.ForecastLabel, lineData(chart.Forecast),
		charts.WithLineStyleOpts(opts.LineStyle{Color: opt.ForecastColor}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: opt.ForecastColor}),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)

	for _, m := range chart.Markers {
		line.AddSeries(m.Label, markerData(m),
			charts.WithLineStyleOpts(opts.LineStyle{Color: opt.EventColor, Type: "dotted"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: opt.EventColor}),
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithMarkPointNameCoordItemOpts(opts.MarkPointNameCoordItem{
				Name:       m.Annotation.Text,
				Coordinate: []interface{}{m.Annotation.X.Format(time.DateOnly), m.Annotation.Y.InexactFloat64()},
				Symbol:     "pin",
				SymbolSize: 20,
				Label: &opts.Label{
					Show:      opts.Bool(true),
					Position:  "top",
					Color:     opt.EventColor,
					Formatter: "{b}",
				},
			}),
		)
	}
	return line
}

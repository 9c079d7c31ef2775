package dashboard

const (
	DefaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"
	echartsJS         = "echarts.min.js"
)

// Options sets the labels, colors and sizes of the rendered page
type Options struct {
	PageTitle  string `json:"page_title" yaml:"page_title"`
	ChartTitle string `json:"chart_title" yaml:"chart_title"`
	AssetsHost string `json:"assets_host" yaml:"assets_host"`

	Width  string `json:"width" yaml:"width"`
	Height string `json:"height" yaml:"height"`

	XAxisName     string `json:"x_axis_name" yaml:"x_axis_name"`
	YAxisName     string `json:"y_axis_name" yaml:"y_axis_name"`
	HistoryLabel  string `json:"history_label" yaml:"history_label"`
	ForecastLabel string `json:"forecast_label" yaml:"forecast_label"`

	HistoryColor  string `json:"history_color" yaml:"history_color"`
	ForecastColor string `json:"forecast_color" yaml:"forecast_color"`
	EventColor    string `json:"event_color" yaml:"event_color"`

	HistoryTableTitle  string `json:"history_table_title" yaml:"history_table_title"`
	ForecastTableTitle string `json:"forecast_table_title" yaml:"forecast_table_title"`
}

// NewDefaultOptions returns the portuguese labels of the brent dashboard
func NewDefaultOptions() *Options {
	return &Options{
		PageTitle:          "Petróleo Brent",
		ChartTitle:         "Previsão do Preço Diário do Petróleo Brent com Eventos Relevantes",
		AssetsHost:         DefaultAssetsHost,
		Width:              "1200px",
		Height:             "600px",
		XAxisName:          "Data",
		YAxisName:          "Preço (US$)",
		HistoryLabel:       "Histórico de Preços",
		ForecastLabel:      "Previsão",
		HistoryColor:       "#1f77b4",
		ForecastColor:      "#ff7f0e",
		EventColor:         "#d62728",
		HistoryTableTitle:  "Histórico de Preços",
		ForecastTableTitle: "Previsão de Preços",
	}
}

// withDefaults fills any unset field from the defaults
func (o *Options) withDefaults() *Options {
	def := NewDefaultOptions()
	if o == nil {
		return def
	}
	out := *o
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&out.PageTitle, def.PageTitle)
	fill(&out.ChartTitle, def.ChartTitle)
	fill(&out.AssetsHost, def.AssetsHost)
	fill(&out.Width, def.Width)
	fill(&out.Height, def.Height)
	fill(&out.XAxisName, def.XAxisName)
	fill(&out.YAxisName, def.YAxisName)
	fill(&out.HistoryLabel, def.HistoryLabel)
	fill(&out.ForecastLabel, def.ForecastLabel)
	fill(&out.HistoryColor, def.HistoryColor)
	fill(&out.ForecastColor, def.ForecastColor)
	fill(&out.EventColor, def.EventColor)
	fill(&out.HistoryTableTitle, def.HistoryTableTitle)
	fill(&out.ForecastTableTitle, def.ForecastTableTitle)
	return &out
}

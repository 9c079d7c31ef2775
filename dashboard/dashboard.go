// Package dashboard renders a pipeline result as a single html page holding the annotated price
// chart followed by the history and forecast tables, or as json for api consumers.
package dashboard

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/aouyang1/go-pricecast"
	"github.com/aouyang1/go-pricecast/window"
	"github.com/goccy/go-json"
)

var ErrNoResult = errors.New("no pipeline result to render")

var pageTpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>{{ .Title }}</title>
<script src="{{ .EchartsJS }}"></script>
<style>
body { font-family: sans-serif; margin: 2em; }
.container { display: flex; justify-content: center; }
.tables { display: flex; gap: 3em; align-items: flex-start; }
.scroll { max-height: 480px; overflow-y: auto; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ddd; padding: 4px 10px; text-align: right; }
th { background: #f4f4f4; position: sticky; top: 0; }
</style>
</head>
<body>
{{ .ChartElement }}
{{ .ChartScript }}
<p>Gerado em {{ .GeneratedAt }}</p>
<div class="tables">
{{- range .Tables }}
<section>
<h2>{{ .Title }}</h2>
<div class="scroll">
<table>
<thead><tr>{{ range .Columns }}<th>{{ . }}</th>{{ end }}</tr></thead>
<tbody>
{{- range .Records }}
<tr>{{ range . }}<td>{{ . }}</td>{{ end }}</tr>
{{- end }}
</tbody>
</table>
</div>
</section>
{{- end }}
</div>
</body>
</html>
`))

type pageTable struct {
	Title   string
	Columns []string
	Records [][]string
}

type page struct {
	Title        string
	EchartsJS    string
	GeneratedAt  string
	ChartElement template.HTML
	ChartScript  template.HTML
	Tables       []pageTable
}

func newPageTable(title string, t window.Table) pageTable {
	return pageTable{Title: title, Columns: t.Columns(), Records: t.Records()}
}

// Render writes the html page of a result. Unset options fall back to the defaults.
func Render(w io.Writer, res *pricecast.Result, opt *Options) error {
	if res == nil {
		return ErrNoResult
	}
	opt = opt.withDefaults()

	snippet := LinePrice(res.Chart, opt).RenderSnippet()
	p := page{
		Title:        opt.PageTitle,
		EchartsJS:    opt.AssetsHost + echartsJS,
		GeneratedAt:  res.GeneratedAt.Format(time.RFC3339),
		ChartElement: template.HTML(snippet.Element),
		ChartScript:  template.HTML(snippet.Script),
		Tables: []pageTable{
			newPageTable(opt.HistoryTableTitle, res.History),
			newPageTable(opt.ForecastTableTitle, res.ForecastTable),
		},
	}
	if err := pageTpl.Execute(w, p); err != nil {
		return fmt.Errorf("unable to render page, %w", err)
	}
	return nil
}

// WriteJSON writes the tables, chart lines and markers of a result as indented json
func WriteJSON(w io.Writer, res *pricecast.Result) error {
	if res == nil {
		return ErrNoResult
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("unable to encode result, %w", err)
	}
	return nil
}

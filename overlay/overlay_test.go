package overlay

import (
	"testing"
	"time"

	"github.com/aouyang1/go-pricecast/timedataset"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seriesFromPrices(t *testing.T, prices ...string) *timedataset.TimeSeries {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]timedataset.ObservedPoint, len(prices))
	for i, p := range prices {
		points[i] = timedataset.ObservedPoint{Date: start.AddDate(0, 0, i), Price: decimal.RequireFromString(p)}
	}
	ts, err := timedataset.New(points)
	require.NoError(t, err)
	return ts
}

func TestResolve(t *testing.T) {
	series := seriesFromPrices(t, "50.00", "20.00", "80.00", "65.10")
	date := time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC)

	markers, err := Resolve([]Event{{Label: "X", Date: date}}, series)
	require.NoError(t, err)
	require.Len(t, markers, 1)

	m := markers[0]
	assert.Equal(t, "X", m.Label)
	assert.Equal(t, date, m.Line.X)
	assert.Equal(t, "20.00", m.Line.YMin.StringFixed(2))
	assert.Equal(t, "80.00", m.Line.YMax.StringFixed(2))
	assert.Equal(t, date, m.Annotation.X)
	assert.Equal(t, "80.00", m.Annotation.Y.StringFixed(2))
	assert.Equal(t, "X", m.Annotation.Text)
}

func TestResolveOrderAndRange(t *testing.T) {
	series := seriesFromPrices(t, "30.00", "40.00")

	testData := map[string]struct {
		events   []Event
		expected []string
	}{
		"no events": {
			events:   nil,
			expected: []string{},
		},
		"input order kept": {
			events: []Event{
				{Label: "late", Date: time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC)},
				{Label: "early", Date: time.Date(2019, 9, 14, 0, 0, 0, 0, time.UTC)},
			},
			expected: []string{"late", "early"},
		},
		"defaults outside series range": {
			events: DefaultEvents(),
			expected: []string{
				"Ataques na Arábia Saudita (2019)",
				"Pandemia de COVID-19 (2020)",
				"Conflito Rússia-Ucrânia (2022)",
				"Aumento de Produção Saudita (2023)",
			},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			markers, err := Resolve(td.events, series)
			require.NoError(t, err)

			labels := make([]string, 0, len(markers))
			for _, m := range markers {
				labels = append(labels, m.Label)
				assert.Equal(t, "30.00", m.Line.YMin.StringFixed(2))
				assert.Equal(t, "40.00", m.Line.YMax.StringFixed(2))
			}
			assert.Equal(t, td.expected, labels)
		})
	}
}

func TestResolveEmptySeries(t *testing.T) {
	empty, err := timedataset.New(nil)
	require.NoError(t, err)

	_, err = Resolve(DefaultEvents(), empty)
	assert.ErrorIs(t, err, timedataset.ErrValidation)
	assert.ErrorIs(t, err, timedataset.ErrEmptySeries)
}

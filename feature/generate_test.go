package feature

import (
	"math"
	"testing"
	"time"

	"github.com/rickar/cal/v2/us"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func days(start time.Time, n int) []time.Time {
	t := make([]time.Time, n)
	for i := range n {
		t[i] = start.AddDate(0, 0, i)
	}
	return t
}

func TestGrowthGenerate(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	tSeries := days(start, 5)

	res := Linear().Generate(tSeries, start, start.AddDate(0, 0, 2))
	assert.InDeltaSlice(t, []float64{0, 0.5, 1, 1.5, 2}, res, 1e-9)

	res = Linear().Generate(tSeries, start, start)
	assert.Equal(t, []float64{0, 0, 0, 0, 0}, res)
}

func TestChangepointGenerate(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	tSeries := days(start, 6)

	chpt := NewChangepoint("c", start.AddDate(0, 0, 2))
	res := chpt.Generate(tSeries, start.AddDate(0, 0, 4))
	assert.InDeltaSlice(t, []float64{0, 0, 0, 0.5, 1, 1.5}, res, 1e-9)
	assert.Equal(t, "chpnt_c_slope", chpt.String())
	assert.Equal(t, FeatureTypeChangepoint, chpt.Type())
}

func TestAutoChangepoints(t *testing.T) {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 100)

	testData := map[string]struct {
		n         int
		rangeFrac float64
		expected  []time.Time
	}{
		"none": {
			n: 0,
		},
		"full range": {
			n:         3,
			rangeFrac: 1,
			expected: []time.Time{
				start.AddDate(0, 0, 25),
				start.AddDate(0, 0, 50),
				start.AddDate(0, 0, 75),
			},
		},
		"partial range": {
			n:         1,
			rangeFrac: 0.8,
			expected:  []time.Time{start.AddDate(0, 0, 40)},
		},
		"invalid range defaults to full": {
			n:         1,
			rangeFrac: 2,
			expected:  []time.Time{start.AddDate(0, 0, 50)},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res := AutoChangepoints(start, end, td.n, td.rangeFrac)
			require.Len(t, res, len(td.expected))
			for i, chpt := range res {
				assert.Equal(t, td.expected[i], chpt.T)
				assert.True(t, chpt.T.After(start))
			}
		})
	}
}

func TestSeasonalityString(t *testing.T) {
	feat := NewSeasonality("weekly", FourierCompCos, 2)
	assert.Equal(t, "seas_weekly_02_cos", feat.String())

	val, exists := feat.Get("ORDER")
	assert.True(t, exists)
	assert.Equal(t, "2", val)

	_, exists = feat.Get("unknown")
	assert.False(t, exists)

	assert.Equal(t, map[string]string{
		"name":              "weekly",
		"fourier_component": "cos",
		"order":             "2",
	}, feat.Decode())
}

func TestFourier(t *testing.T) {
	start := time.Unix(0, 0).UTC()
	tSeries := []time.Time{start, start.AddDate(0, 0, 1), start.AddDate(0, 0, 2)}
	period := 4 * 24 * time.Hour

	s := Fourier(tSeries, "test", period, 2)
	assert.Equal(t, 4, s.Len())

	sin1, exists := s.Get(NewSeasonality("test", FourierCompSin, 1))
	require.True(t, exists)
	assert.InDeltaSlice(t, []float64{0, 1, 0}, sin1, 1e-9)

	cos2, exists := s.Get(NewSeasonality("test", FourierCompCos, 2))
	require.True(t, exists)
	assert.InDeltaSlice(t, []float64{1, -1, 1}, cos2, 1e-9)

	for _, f := range s.Labels() {
		data, _ := s.Get(f)
		for _, v := range data {
			assert.False(t, math.IsNaN(v))
		}
	}
}

func TestHolidayWindows(t *testing.T) {
	start := time.Date(2024, 12, 8, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC)

	windows := HolidayWindows(us.ChristmasDay, start, end, 24*time.Hour, 0)
	assert.Contains(t, windows, Window{
		Start: time.Date(2024, 12, 24, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 12, 26, 0, 0, 0, 0, time.UTC),
	})
	assert.Contains(t, windows, Window{
		Start: time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 12, 26, 0, 0, 0, 0, time.UTC),
	})

	ev := HolidayEvent(us.ChristmasDay)
	assert.Equal(t, "event_christmas_day", ev.String())
	assert.Equal(t, FeatureTypeEvent, ev.Type())

	tSeries := days(time.Date(2024, 12, 23, 0, 0, 0, 0, time.UTC), 5)
	res := ev.Generate(tSeries, windows)
	assert.Equal(t, []float64{0, 1, 1, 0, 0}, res)
}

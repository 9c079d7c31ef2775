package timedataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateSeries(t *testing.T, n int) *TimeSeries {
	tSeries := GenerateTradingDays(time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC), n)
	ts, err := GenerateConstY(n, 50).ToSeries(tSeries)
	require.NoError(t, err)
	return ts
}

func TestChronologicalSplit(t *testing.T) {
	testData := map[string]struct {
		n            int
		testFraction float64
		trainLen     int
		testLen      int
		err          error
	}{
		"too short":            {n: 1, testFraction: 0.05, err: ErrValidation},
		"empty":                {n: 0, testFraction: 0.05, err: ErrValidation},
		"zero fraction":        {n: 10, testFraction: 0, err: ErrValidation},
		"full fraction":        {n: 10, testFraction: 1, err: ErrValidation},
		"hundred points":       {n: 100, testFraction: 0.05, trainLen: 95, testLen: 5},
		"minimum one in test":  {n: 2, testFraction: 0.05, trainLen: 1, testLen: 1},
		"never empties train":  {n: 3, testFraction: 0.95, trainLen: 1, testLen: 2},
		"rounds half up":       {n: 30, testFraction: 0.05, trainLen: 28, testLen: 2},
		"rounds down":          {n: 29, testFraction: 0.05, trainLen: 28, testLen: 1},
		"large series default": {n: 2000, testFraction: 0.05, trainLen: 1900, testLen: 100},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			series := generateSeries(t, td.n)
			split, err := ChronologicalSplit(series, td.testFraction)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, td.trainLen, split.Train.Len())
			assert.Equal(t, td.testLen, split.Test.Len())

			assert.True(t, split.Train.End().Before(split.Test.Start()))

			rebuilt := append(split.Train.Points(), split.Test.Points()...)
			assert.Equal(t, series.Points(), rebuilt)
		})
	}
}

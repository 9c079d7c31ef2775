package forecast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScores(t *testing.T) {
	testData := map[string]struct {
		predicted []float64
		actual    []float64
		expected  *Scores
		err       error
	}{
		"perfect": {
			predicted: []float64{1, 2, 3},
			actual:    []float64{1, 2, 3},
			expected:  &Scores{MSE: 0, MAPE: 0, R2: 1, Samples: 3},
		},
		"offset": {
			predicted: []float64{2, 3, 4, 5},
			actual:    []float64{1, 2, 4, 5},
			expected:  &Scores{MSE: 0.5, MAPE: 0.375, R2: 0.8, Samples: 4},
		},
		"nan skipped": {
			predicted: []float64{1, math.NaN(), 3},
			actual:    []float64{1, 2, 3},
			expected:  &Scores{MSE: 0, MAPE: 0, R2: 1, Samples: 2},
		},
		"all nan": {
			predicted: []float64{math.NaN(), math.Inf(1)},
			actual:    []float64{1, 2},
			err:       ErrNoScoreSamples,
		},
		"length mismatch": {
			predicted: []float64{1, 2},
			actual:    []float64{1, 2, 3},
			err:       ErrResLenMismatch,
		},
		"empty": {
			err: ErrNoScoreSamples,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			scores, err := NewScores(td.predicted, td.actual)
			if td.err != nil {
				assert.ErrorIs(t, err, td.err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, td.expected.MSE, scores.MSE, 1e-9)
			assert.InDelta(t, td.expected.MAPE, scores.MAPE, 1e-9)
			assert.InDelta(t, td.expected.R2, scores.R2, 1e-9)
			assert.Equal(t, td.expected.Samples, scores.Samples)
		})
	}
}

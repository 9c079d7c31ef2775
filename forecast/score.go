package forecast

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrResLenMismatch = errors.New("predicted and actual have different lengths")
	ErrNoScoreSamples = errors.New("no samples to score")
)

// Scores tracks the goodness of fit of predictions against observed prices. Samples counts the
// pairs where both values are finite; only those are scored.
type Scores struct {
	MSE     float64 `json:"mean_squared_error"`
	MAPE    float64 `json:"mean_average_percent_error"`
	R2      float64 `json:"r_squared"`
	Samples int     `json:"samples"`
}

// NewScores calculates the fit scores given the predicted and actual input slice values
func NewScores(predicted, actual []float64) (*Scores, error) {
	yhat, y, err := scoredPairs(predicted, actual)
	if err != nil {
		return nil, err
	}
	if len(y) == 0 {
		return nil, ErrNoScoreSamples
	}

	errs := make([]float64, len(y))
	floats.SubTo(errs, y, yhat)

	pct := 0.0
	for i, e := range errs {
		if y[i] != 0 {
			pct += math.Abs(e / y[i])
		}
	}

	n := float64(len(y))
	r2 := stat.RSquaredFrom(yhat, y, nil)
	if math.IsNaN(r2) {
		// undefined for constant actuals
		r2 = 1.0
	}
	return &Scores{
		MSE:     floats.Dot(errs, errs) / n,
		MAPE:    pct / n,
		R2:      r2,
		Samples: len(y),
	}, nil
}

// MSE computes the mean squared error over the finite pairs. 0 is a perfect match.
func MSE(predicted, actual []float64) (float64, error) {
	s, err := NewScores(predicted, actual)
	if err != nil {
		return 0, err
	}
	return s.MSE, nil
}

// MAPE computes the mean absolute percent error over the finite pairs, skipping zero actuals in
// the sum. 0 is a perfect match.
func MAPE(predicted, actual []float64) (float64, error) {
	s, err := NewScores(predicted, actual)
	if err != nil {
		return 0, err
	}
	return s.MAPE, nil
}

// RSquared computes the coefficient of determination over the finite pairs where 1.0 means a
// perfect fit
func RSquared(predicted, actual []float64) (float64, error) {
	s, err := NewScores(predicted, actual)
	if err != nil {
		return 0, err
	}
	return s.R2, nil
}

func scoredPairs(predicted, actual []float64) ([]float64, []float64, error) {
	if len(predicted) != len(actual) {
		return nil, nil, fmt.Errorf("expected %d, but got %d, %w", len(actual), len(predicted), ErrResLenMismatch)
	}
	yhat := make([]float64, 0, len(predicted))
	y := make([]float64, 0, len(actual))
	for i := range actual {
		if !finite(predicted[i]) || !finite(actual[i]) {
			continue
		}
		yhat = append(yhat, predicted[i])
		y = append(y, actual[i])
	}
	return yhat, y, nil
}

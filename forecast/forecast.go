// Package forecast fits a pluggable forecasting model on a training series and projects it over
// a daily horizon with lower and upper bounds.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/aouyang1/go-pricecast/timedataset"
)

var (
	ErrModelFit               = errors.New("model fit failed")
	ErrModelContractViolation = errors.New("model contract violation")
	ErrInvalidHorizon         = errors.New("invalid horizon")
	ErrNoFitter               = errors.New("no fitter provided")
	ErrNoOverlap              = errors.New("forecast does not overlap test series")
)

// MinTrainingPoints is the fewest observations a model can be fit on
const MinTrainingPoints = 2

// Fitter trains a model from a univariate time series
type Fitter interface {
	Fit(t []time.Time, y []float64) (Predictor, error)
}

// Predictor produces point forecasts and bounds for any set of time points
type Predictor interface {
	Predict(t []time.Time) (*Results, error)
}

// Results is the raw output of a Predictor. Every slice has the same length as T.
type Results struct {
	T        []time.Time `json:"time"`
	Forecast []float64   `json:"forecast"`
	Upper    []float64   `json:"upper"`
	Lower    []float64   `json:"lower"`
}

// ForecastPoint is the prediction for a single calendar day
type ForecastPoint struct {
	Date  time.Time `json:"date"`
	Point float64   `json:"point"`
	Lower float64   `json:"lower"`
	Upper float64   `json:"upper"`
}

// Forecast covers every calendar day from the first training date through the horizon. Points
// at or before TrainEnd are in-sample fits.
type Forecast struct {
	Points   []ForecastPoint `json:"points"`
	TrainEnd time.Time       `json:"train_end"`

	Model Predictor `json:"-"`
}

// Len returns the number of forecast points
func (f *Forecast) Len() int {
	if f == nil {
		return 0
	}
	return len(f.Points)
}

// Future returns the points strictly after the training end
func (f *Forecast) Future() []ForecastPoint {
	if f == nil {
		return nil
	}
	res := make([]ForecastPoint, 0, len(f.Points))
	for _, p := range f.Points {
		if p.Date.After(f.TrainEnd) {
			res = append(res, p)
		}
	}
	return res
}

// After returns the points strictly after the cutoff date
func (f *Forecast) After(cutoff time.Time) []ForecastPoint {
	if f == nil {
		return nil
	}
	res := make([]ForecastPoint, 0, len(f.Points))
	for _, p := range f.Points {
		if p.Date.After(cutoff) {
			res = append(res, p)
		}
	}
	return res
}

// Engine fits a model on a training series and projects a forecast through the Fitter it wraps
type Engine struct {
	fitter Fitter
}

// NewEngine creates an engine backed by the fitter
func NewEngine(fitter Fitter) (*Engine, error) {
	if fitter == nil {
		return nil, ErrNoFitter
	}
	return &Engine{fitter: fitter}, nil
}

// FitAndForecast fits the model on the training series only and predicts every calendar day from
// the first training date through horizonDays after the last training date. Results that break
// the date or bound contract are rejected, never repaired.
func (e *Engine) FitAndForecast(ctx context.Context, train *timedataset.TimeSeries, horizonDays int) (*Forecast, error) {
	if horizonDays < 0 {
		return nil, fmt.Errorf("horizon of %d days, %w", horizonDays, ErrInvalidHorizon)
	}
	if train.Len() < MinTrainingPoints {
		return nil, fmt.Errorf("%d training points, need at least %d, %w", train.Len(), MinTrainingPoints, ErrModelFit)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t := train.Times()
	y := train.Floats()
	for i, v := range y {
		if !finite(v) {
			return nil, fmt.Errorf("non-finite training value at %s, %w", t[i].Format(time.DateOnly), ErrModelFit)
		}
	}

	model, err := e.fitter.Fit(t, y)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModelFit, err)
	}
	if model == nil {
		return nil, fmt.Errorf("fitter returned no model, %w", ErrModelFit)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	trainEnd := train.End()
	horizon := timedataset.DailyRange(train.Start(), trainEnd.AddDate(0, 0, horizonDays))
	res, err := model.Predict(horizon)
	if err != nil {
		return nil, fmt.Errorf("unable to predict horizon, %w: %w", ErrModelFit, err)
	}

	points, err := toPoints(horizon, res)
	if err != nil {
		return nil, err
	}
	return &Forecast{
		Points:   points,
		TrainEnd: trainEnd,
		Model:    model,
	}, nil
}

func toPoints(horizon []time.Time, res *Results) ([]ForecastPoint, error) {
	if res == nil {
		return nil, fmt.Errorf("predictor returned no results, %w", ErrModelContractViolation)
	}
	n := len(horizon)
	if len(res.T) != n || len(res.Forecast) != n || len(res.Upper) != n || len(res.Lower) != n {
		return nil, fmt.Errorf(
			"expected %d points, but got time=%d forecast=%d upper=%d lower=%d, %w",
			n, len(res.T), len(res.Forecast), len(res.Upper), len(res.Lower), ErrModelContractViolation,
		)
	}

	points := make([]ForecastPoint, n)
	for i, d := range horizon {
		if !timedataset.Day(res.T[i]).Equal(d) {
			return nil, fmt.Errorf("expected %s at %d, but got %s, %w",
				d.Format(time.DateOnly), i, res.T[i].Format(time.DateOnly), ErrModelContractViolation)
		}
		p := ForecastPoint{
			Date:  d,
			Point: res.Forecast[i],
			Lower: res.Lower[i],
			Upper: res.Upper[i],
		}
		if !finite(p.Point) || !finite(p.Lower) || !finite(p.Upper) {
			return nil, fmt.Errorf("non-finite prediction at %s, %w", d.Format(time.DateOnly), ErrModelContractViolation)
		}
		if p.Lower > p.Point || p.Point > p.Upper {
			return nil, fmt.Errorf("bounds %.4f <= %.4f <= %.4f do not hold at %s, %w",
				p.Lower, p.Point, p.Upper, d.Format(time.DateOnly), ErrModelContractViolation)
		}
		points[i] = p
	}
	return points, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Evaluate scores the forecast against the held out test series on the dates both cover. The
// scores are informational and never feed back into the model.
func Evaluate(fc *Forecast, test *timedataset.TimeSeries) (*Scores, error) {
	if fc.Len() == 0 || test.Len() == 0 {
		return nil, ErrNoOverlap
	}
	byDate := make(map[time.Time]float64, fc.Len())
	for _, p := range fc.Points {
		byDate[p.Date] = p.Point
	}

	predicted := make([]float64, 0, test.Len())
	actual := make([]float64, 0, test.Len())
	for _, obs := range test.Points() {
		val, exists := byDate[obs.Date]
		if !exists {
			continue
		}
		predicted = append(predicted, val)
		actual = append(actual, obs.Price.InexactFloat64())
	}
	if len(actual) == 0 {
		return nil, fmt.Errorf("test series %s to %s, %w",
			test.Start().Format(time.DateOnly), test.End().Format(time.DateOnly), ErrNoOverlap)
	}

	return NewScores(predicted, actual)
}

package forecast

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/aouyang1/go-pricecast/timedataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constFitter predicts the mean of the training data with a fixed band
type constFitter struct {
	band float64
	err  error

	fitT []time.Time
}

type constPredictor struct {
	level float64
	band  float64
}

func (c *constFitter) Fit(t []time.Time, y []float64) (Predictor, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.fitT = t
	var sum float64
	for _, v := range y {
		sum += v
	}
	return constPredictor{level: sum / float64(len(y)), band: c.band}, nil
}

func (c constPredictor) Predict(t []time.Time) (*Results, error) {
	res := &Results{
		T:        t,
		Forecast: make([]float64, len(t)),
		Upper:    make([]float64, len(t)),
		Lower:    make([]float64, len(t)),
	}
	for i := range t {
		res.Forecast[i] = c.level
		res.Upper[i] = c.level + c.band
		res.Lower[i] = c.level - c.band
	}
	return res, nil
}

// funcFitter returns a predictor that produces whatever results the function builds
type funcFitter func(t []time.Time) (*Results, error)

func (f funcFitter) Fit(t []time.Time, y []float64) (Predictor, error) {
	return funcPredictor(f), nil
}

type funcPredictor func(t []time.Time) (*Results, error)

func (f funcPredictor) Predict(t []time.Time) (*Results, error) {
	return f(t)
}

func trainingSeries(t *testing.T, n int) *timedataset.TimeSeries {
	tSeries := timedataset.GenerateTradingDays(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), n)
	ts, err := timedataset.GenerateConstY(n, 80).ToSeries(tSeries)
	require.NoError(t, err)
	return ts
}

func TestNewEngine(t *testing.T) {
	_, err := NewEngine(nil)
	assert.ErrorIs(t, err, ErrNoFitter)
}

func TestFitAndForecast(t *testing.T) {
	train := trainingSeries(t, 10)
	fitter := &constFitter{band: 2}
	engine, err := NewEngine(fitter)
	require.NoError(t, err)

	fc, err := engine.FitAndForecast(context.Background(), train, 3)
	require.NoError(t, err)

	// 2024-01-01 through 2024-01-12 trading days spans 12 calendar days, plus 3 horizon days
	require.Equal(t, 15, fc.Len())
	assert.Equal(t, train.Start(), fc.Points[0].Date)
	assert.Equal(t, train.End().AddDate(0, 0, 3), fc.Points[fc.Len()-1].Date)
	assert.Equal(t, train.End(), fc.TrainEnd)
	assert.Equal(t, train.Times(), fitter.fitT, "model fit on training dates only")

	for i, p := range fc.Points {
		if i > 0 {
			assert.Equal(t, fc.Points[i-1].Date.AddDate(0, 0, 1), p.Date)
		}
		assert.True(t, p.Lower <= p.Point && p.Point <= p.Upper)
		assert.InDelta(t, 80.0, p.Point, 1e-9)
	}

	future := fc.Future()
	require.Len(t, future, 3)
	assert.True(t, future[0].Date.After(train.End()))
}

func TestFitAndForecastZeroHorizon(t *testing.T) {
	train := trainingSeries(t, 5)
	engine, err := NewEngine(&constFitter{})
	require.NoError(t, err)

	fc, err := engine.FitAndForecast(context.Background(), train, 0)
	require.NoError(t, err)
	assert.Equal(t, train.End(), fc.Points[fc.Len()-1].Date)
	assert.Empty(t, fc.Future())
}

func TestFitAndForecastErrors(t *testing.T) {
	errBackend := errors.New("backend failure")

	testData := map[string]struct {
		fitter      Fitter
		n           int
		horizonDays int
		err         error
	}{
		"negative horizon": {
			fitter:      &constFitter{},
			n:           5,
			horizonDays: -1,
			err:         ErrInvalidHorizon,
		},
		"too few points": {
			fitter:      &constFitter{},
			n:           1,
			horizonDays: 5,
			err:         ErrModelFit,
		},
		"fitter failure": {
			fitter:      &constFitter{err: errBackend},
			n:           5,
			horizonDays: 5,
			err:         errBackend,
		},
		"short results": {
			fitter: funcFitter(func(t []time.Time) (*Results, error) {
				return &Results{T: t[1:], Forecast: make([]float64, len(t)-1)}, nil
			}),
			n:           5,
			horizonDays: 5,
			err:         ErrModelContractViolation,
		},
		"nil results": {
			fitter: funcFitter(func(t []time.Time) (*Results, error) {
				return nil, nil
			}),
			n:           5,
			horizonDays: 5,
			err:         ErrModelContractViolation,
		},
		"shifted dates": {
			fitter: funcFitter(func(t []time.Time) (*Results, error) {
				res, _ := constPredictor{level: 1}.Predict(t)
				shifted := make([]time.Time, len(t))
				for i := range t {
					shifted[i] = t[i].AddDate(0, 0, 1)
				}
				res.T = shifted
				return res, nil
			}),
			n:           5,
			horizonDays: 5,
			err:         ErrModelContractViolation,
		},
		"nan prediction": {
			fitter: funcFitter(func(t []time.Time) (*Results, error) {
				res, _ := constPredictor{level: 1}.Predict(t)
				res.Forecast[2] = math.NaN()
				return res, nil
			}),
			n:           5,
			horizonDays: 5,
			err:         ErrModelContractViolation,
		},
		"inverted bounds": {
			fitter: funcFitter(func(t []time.Time) (*Results, error) {
				res, _ := constPredictor{level: 1, band: 1}.Predict(t)
				res.Lower[len(t)-1], res.Upper[len(t)-1] = res.Upper[len(t)-1], res.Lower[len(t)-1]
				return res, nil
			}),
			n:           5,
			horizonDays: 5,
			err:         ErrModelContractViolation,
		},
		"predict failure": {
			fitter: funcFitter(func(t []time.Time) (*Results, error) {
				return nil, errBackend
			}),
			n:           5,
			horizonDays: 5,
			err:         ErrModelFit,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			engine, err := NewEngine(td.fitter)
			require.NoError(t, err)

			fc, err := engine.FitAndForecast(context.Background(), trainingSeries(t, td.n), td.horizonDays)
			assert.ErrorIs(t, err, td.err)
			assert.Nil(t, fc)
		})
	}
}

func TestFitAndForecastCanceled(t *testing.T) {
	engine, err := NewEngine(&constFitter{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.FitAndForecast(ctx, trainingSeries(t, 5), 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEvaluate(t *testing.T) {
	series := trainingSeries(t, 20)
	split, err := timedataset.ChronologicalSplit(series, 0.25)
	require.NoError(t, err)

	engine, err := NewEngine(&constFitter{band: 1})
	require.NoError(t, err)

	fc, err := engine.FitAndForecast(context.Background(), split.Train, 30)
	require.NoError(t, err)

	scores, err := Evaluate(fc, split.Test)
	require.NoError(t, err)
	assert.Equal(t, split.Test.Len(), scores.Samples)
	assert.InDelta(t, 0.0, scores.MSE, 1e-9)

	// zero horizon never reaches the test dates
	fc, err = engine.FitAndForecast(context.Background(), split.Train, 0)
	require.NoError(t, err)
	_, err = Evaluate(fc, split.Test)
	assert.ErrorIs(t, err, ErrNoOverlap)
}

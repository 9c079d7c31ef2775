// Package linearforecast is a forecast.Fitter backed by a linear decomposition of the series into
// growth, changepoint trend, fourier seasonality and holiday windows. A second linear fit on the
// rolling residual deviation produces the uncertainty band.
package linearforecast

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aouyang1/go-pricecast/forecast"
	"github.com/aouyang1/go-pricecast/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrInsufficientResidual     = errors.New("insufficient samples from residual")
	ErrInsufficientTrainingData = errors.New("insufficient training data")
	ErrMismatchedDataLen        = errors.New("input data has different length than time")
	ErrUntrainedForecast        = errors.New("forecast has not been trained yet")
)

const (
	MinResidualWindow       = 2
	MinResidualSize         = 2
	MinResidualWindowFactor = 4
)

// Forecaster fits a series model and an uncertainty model and can be used to generate forecasts
type Forecaster struct {
	opt *Options

	series      *component
	uncertainty *component

	residualWindow int
	outliers       []time.Time
	fitResults     *forecast.Results
}

// New creates a new Forecaster using the provided options. If no options are provided a default
// is used.
func New(opt *Options) (*Forecaster, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}

	series, err := newComponent(opt.Series)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize series, %w", err)
	}
	uncertainty, err := newComponent(opt.Uncertainty)
	if err != nil {
		return nil, fmt.Errorf("unable to initialize uncertainty, %w", err)
	}
	return &Forecaster{
		opt:         opt,
		series:      series,
		uncertainty: uncertainty,
	}, nil
}

// Fit fits the series then fits the uncertainty band on the rolling deviation of the residual
func (f *Forecaster) Fit(t []time.Time, y []float64) error {
	if len(t) != len(y) {
		return fmt.Errorf("%d times and %d values, %w", len(t), len(y), ErrMismatchedDataLen)
	}
	if len(t) < forecast.MinTrainingPoints {
		return fmt.Errorf("%d points, %w", len(t), ErrInsufficientTrainingData)
	}

	fitT, err := f.fitSeriesWithOutliers(t, y)
	if err != nil {
		return err
	}
	if err := f.fitUncertainty(fitT, f.series.residual); err != nil {
		return err
	}

	f.fitResults, err = f.Predict(t)
	if err != nil {
		return fmt.Errorf("unable to get predicted values from training set, %w", err)
	}
	return nil
}

// fitSeriesWithOutliers fits the series and, with outlier options set, repeatedly drops the points
// outside the residual fences and refits. It returns the times of the final fit.
func (f *Forecaster) fitSeriesWithOutliers(t []time.Time, y []float64) ([]time.Time, error) {
	f.outliers = nil
	numPasses := 0
	if f.opt.Outlier != nil {
		numPasses = f.opt.Outlier.NumPasses
	}

	for pass := 0; ; pass++ {
		if err := f.series.fit(t, y); err != nil {
			return nil, fmt.Errorf("unable to fit series, %w", err)
		}
		if pass >= numPasses {
			break
		}

		outlierIdxs := stats.DetectOutliers(
			f.series.residual,
			f.opt.Outlier.LowerPercentile,
			f.opt.Outlier.UpperPercentile,
			f.opt.Outlier.TukeyFactor,
		)
		// no more outliers detected so break early
		if len(outlierIdxs) == 0 {
			break
		}
		if len(t)-len(outlierIdxs) < MinResidualWindowFactor*MinResidualWindow {
			slog.Warn("keeping outliers to retain enough training points",
				"pass", pass, "outliers", len(outlierIdxs), "points", len(t))
			break
		}

		keptT := make([]time.Time, 0, len(t)-len(outlierIdxs))
		keptY := make([]float64, 0, len(y)-len(outlierIdxs))
		var j int
		for i := range t {
			if j < len(outlierIdxs) && outlierIdxs[j] == i {
				f.outliers = append(f.outliers, t[i])
				j++
				continue
			}
			keptT = append(keptT, t[i])
			keptY = append(keptY, y[i])
		}
		slog.Debug("removed outliers", "pass", pass, "count", len(outlierIdxs))
		t, y = keptT, keptY
	}
	return t, nil
}

func (f *Forecaster) fitUncertainty(t []time.Time, residual []float64) error {
	if len(residual) < MinResidualSize {
		return ErrInsufficientResidual
	}

	// limit residual window to a quarter of the residual
	window := f.opt.ResidualWindow
	if len(residual)/MinResidualWindowFactor < window {
		window = len(residual) / MinResidualWindowFactor
	}
	if window < MinResidualWindow {
		window = MinResidualWindow
	}
	f.residualWindow = window

	numWindows := len(residual) - window + 1
	stddevSeries := make([]float64, numWindows)
	for i := 0; i < numWindows; i++ {
		_, stddev := stat.MeanStdDev(residual[i:i+window], nil)
		stddevSeries[i] = f.opt.ResidualZscore * stddev
	}

	// centered on each window since the rolling deviation lags the residual by half a window
	start := window / 2
	end := len(t) - window/2 - window%2 + 1

	if err := f.uncertainty.fit(t[start:end], stddevSeries); err != nil {
		return fmt.Errorf("unable to fit uncertainty, %w", err)
	}
	return nil
}

// Predict takes in any set of time samples and generates a forecast, upper, lower values per
// time point
func (f *Forecaster) Predict(t []time.Time) (*forecast.Results, error) {
	seriesRes, err := f.series.predict(t)
	if err != nil {
		return nil, fmt.Errorf("unable to predict series, %w", err)
	}
	band, err := f.uncertainty.predict(t)
	if err != nil {
		return nil, fmt.Errorf("unable to predict uncertainty, %w", err)
	}

	// band is never negative
	for i := range band {
		if band[i] < 0.0 {
			band[i] = 0.0
		}
	}

	upper := make([]float64, len(seriesRes))
	lower := make([]float64, len(seriesRes))
	copy(upper, seriesRes)
	copy(lower, seriesRes)
	floats.Add(upper, band)
	floats.Sub(lower, band)

	return &forecast.Results{
		T:        t,
		Forecast: seriesRes,
		Upper:    upper,
		Lower:    lower,
	}, nil
}

// Outliers returns the times of the training points removed before the final series fit
func (f *Forecaster) Outliers() []time.Time {
	res := make([]time.Time, len(f.outliers))
	copy(res, f.outliers)
	return res
}

// Residuals returns the difference between the training data and the series fit, excluding
// removed outliers
func (f *Forecaster) Residuals() []float64 {
	res := make([]float64, len(f.series.residual))
	copy(res, f.series.residual)
	return res
}

// FitResults returns the in-sample forecast, upper and lower values
func (f *Forecaster) FitResults() *forecast.Results {
	return f.fitResults
}

// Scores returns the in-sample fit scores of the series
func (f *Forecaster) Scores() *forecast.Scores {
	return f.series.scores
}

// Model returns a serializeable summary of the options and both fits
func (f *Forecaster) Model() (Model, error) {
	if !f.series.trained || !f.uncertainty.trained {
		return Model{}, ErrUntrainedForecast
	}
	return Model{
		Options:        f.opt,
		TrainStart:     f.series.trainStart,
		TrainEnd:       f.series.trainEnd,
		ResidualWindow: f.residualWindow,
		Outliers:       len(f.outliers),
		Series:         f.series.weights(),
		Uncertainty:    f.uncertainty.weights(),
	}, nil
}

// Backend is a forecast.Fitter that trains a new Forecaster on every fit
type Backend struct {
	opt *Options
}

// NewBackend validates the options and returns a fitter. If no options are provided a default is
// used.
func NewBackend(opt *Options) (*Backend, error) {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	return &Backend{opt: opt}, nil
}

// Fit trains a new Forecaster on the series
func (b *Backend) Fit(t []time.Time, y []float64) (forecast.Predictor, error) {
	f, err := New(b.opt)
	if err != nil {
		return nil, err
	}
	if err := f.Fit(t, y); err != nil {
		return nil, err
	}
	return f, nil
}

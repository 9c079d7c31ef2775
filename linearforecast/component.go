package linearforecast

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aouyang1/go-pricecast/feature"
	"github.com/aouyang1/go-pricecast/forecast"
	"github.com/aouyang1/go-pricecast/linearmodel"
	"github.com/rickar/cal/v2"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// component is a single linear decomposition of a series into growth, changepoint trend,
// fourier seasonality and holiday windows
type component struct {
	opt      ComponentOptions
	holidays []*cal.Holiday

	trainStart time.Time
	trainEnd   time.Time
	chpts      []*feature.Changepoint
	seas       []SeasonalityConfig

	labels []feature.Feature
	model  linearmodel.Model
	mean   float64

	residual []float64
	scores   *forecast.Scores
	trained  bool
}

func newComponent(opt ComponentOptions) (*component, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	hols, err := opt.calendar()
	if err != nil {
		return nil, err
	}
	return &component{opt: opt, holidays: hols}, nil
}

func (c *component) features(t []time.Time) (*feature.Set, error) {
	set := feature.NewSet(len(t))

	growth := feature.Linear()
	if err := set.Set(growth, growth.Generate(t, c.trainStart, c.trainEnd)); err != nil {
		return nil, err
	}

	for _, chpt := range c.chpts {
		if err := set.Set(chpt, chpt.Generate(t, c.trainEnd)); err != nil {
			return nil, err
		}
	}

	for _, seasCfg := range c.seas {
		if err := set.Update(feature.Fourier(t, seasCfg.Name, seasCfg.Period, seasCfg.Orders)); err != nil {
			return nil, err
		}
	}

	if len(t) > 0 && len(c.holidays) > 0 {
		for _, hol := range c.holidays {
			windows := feature.HolidayWindows(hol, t[0], t[len(t)-1], c.opt.HolidayBefore, c.opt.HolidayAfter)
			ev := feature.HolidayEvent(hol)
			if err := set.Set(ev, ev.Generate(t, windows)); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

func (c *component) fit(t []time.Time, y []float64) error {
	if len(t) != len(y) {
		return fmt.Errorf("%d times and %d values, %w", len(t), len(y), ErrMismatchedDataLen)
	}
	if len(t) == 0 {
		return ErrInsufficientTrainingData
	}

	c.trainStart, c.trainEnd = t[0], t[len(t)-1]
	span := c.trainEnd.Sub(c.trainStart)
	c.chpts = feature.AutoChangepoints(c.trainStart, c.trainEnd, c.opt.NumChangepoints, c.opt.ChangepointRange)

	c.seas = c.seas[:0]
	for _, seasCfg := range c.opt.Seasonality {
		if seasCfg.Period > span {
			slog.Debug("skipping seasonality longer than training window",
				"name", seasCfg.Name, "period", seasCfg.Period, "window", span)
			continue
		}
		c.seas = append(c.seas, seasCfg)
	}

	set, err := c.features(t)
	if err != nil {
		return fmt.Errorf("unable to generate features, %w", err)
	}
	for _, feat := range set.Constant() {
		slog.Debug("dropping constant feature", "feature", feat.String())
		set.Del(feat)
	}
	c.labels = set.Labels()
	c.mean = stat.Mean(y, nil)
	c.model = nil

	if len(c.labels) > 0 {
		x, err := set.Matrix(c.labels)
		if err != nil {
			return err
		}
		model, err := linearmodel.New(c.opt.Regularization)
		if err != nil {
			return err
		}
		if err := model.Fit(x, mat.NewDense(len(y), 1, y)); err != nil {
			return fmt.Errorf("unable to fit linear model, %w", err)
		}
		c.model = model
	}
	c.trained = true

	predicted, err := c.predict(t)
	if err != nil {
		return err
	}
	c.residual = make([]float64, len(y))
	for i := range y {
		c.residual[i] = y[i] - predicted[i]
	}
	c.scores, err = forecast.NewScores(predicted, y)
	if err != nil {
		return fmt.Errorf("unable to score fit, %w", err)
	}
	return nil
}

func (c *component) predict(t []time.Time) ([]float64, error) {
	if !c.trained {
		return nil, ErrUntrainedForecast
	}
	res := make([]float64, len(t))
	if len(t) == 0 {
		return res, nil
	}
	if c.model == nil {
		for i := range res {
			res[i] = c.mean
		}
		return res, nil
	}

	set, err := c.features(t)
	if err != nil {
		return nil, fmt.Errorf("unable to generate features, %w", err)
	}
	x, err := set.Matrix(c.labels)
	if err != nil {
		return nil, err
	}
	return c.model.Predict(x)
}

func (c *component) weights() ComponentModel {
	cm := ComponentModel{
		Intercept: c.mean,
		Scores:    c.scores,
	}
	for _, chpt := range c.chpts {
		cm.Changepoints = append(cm.Changepoints, chpt.T)
	}
	if c.model == nil {
		return cm
	}
	cm.Intercept = c.model.Intercept()
	coef := c.model.Coef()
	cm.Weights = make([]FeatureWeight, 0, len(coef))
	for i, feat := range c.labels {
		cm.Weights = append(cm.Weights, NewFeatureWeight(feat, coef[i]))
	}
	return cm
}

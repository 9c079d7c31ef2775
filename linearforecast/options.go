package linearforecast

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/go-pricecast/linearmodel"
	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

const (
	LabelSeasWeekly = "weekly"
	LabelSeasYearly = "yearly"

	Week = 7 * 24 * time.Hour
	Year = time.Duration(365.25 * 24 * float64(time.Hour))

	DefaultResidualWindow = 100

	// DefaultResidualZscore scales the rolling residual deviation to an 80% interval
	DefaultResidualZscore = 1.28
)

var (
	ErrUnknownHoliday      = errors.New("unknown holiday")
	ErrInvalidSeasonality  = errors.New("invalid seasonality config")
	ErrInvalidChangepoints = errors.New("invalid changepoint options")
	ErrInvalidResidual     = errors.New("invalid residual options")
	ErrInvalidOutlier      = errors.New("invalid outlier options")
)

// holidays maps config names to the calendar used to place their windows
var holidays = map[string]*cal.Holiday{
	"new_year":         us.NewYear,
	"independence_day": us.IndependenceDay,
	"thanksgiving":     us.ThanksgivingDay,
	"christmas":        us.ChristmasDay,
}

// HolidayNames returns the supported holiday names in sorted order
func HolidayNames() []string {
	names := make([]string, 0, len(holidays))
	for name := range holidays {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SeasonalityConfig describes a fourier seasonality with a period and number of orders
type SeasonalityConfig struct {
	Name   string        `json:"name" yaml:"name"`
	Period time.Duration `json:"period" yaml:"period"`
	Orders int           `json:"orders" yaml:"orders"`
}

func NewWeeklySeasonalityConfig(orders int) SeasonalityConfig {
	return SeasonalityConfig{Name: LabelSeasWeekly, Period: Week, Orders: orders}
}

func NewYearlySeasonalityConfig(orders int) SeasonalityConfig {
	return SeasonalityConfig{Name: LabelSeasYearly, Period: Year, Orders: orders}
}

// ComponentOptions configures the features of a single linear fit
type ComponentOptions struct {
	Seasonality []SeasonalityConfig `json:"seasonality" yaml:"seasonality"`

	// NumChangepoints are evenly placed inside the first ChangepointRange fraction of the
	// training window
	NumChangepoints  int     `json:"num_changepoints" yaml:"num_changepoints"`
	ChangepointRange float64 `json:"changepoint_range" yaml:"changepoint_range"`

	Holidays      []string      `json:"holidays" yaml:"holidays"`
	HolidayBefore time.Duration `json:"holiday_before" yaml:"holiday_before"`
	HolidayAfter  time.Duration `json:"holiday_after" yaml:"holiday_after"`

	// Regularization is the lasso L1 multiplier, 0 fits ordinary least squares
	Regularization float64 `json:"regularization" yaml:"regularization"`
}

// Validate checks the component options
func (c ComponentOptions) Validate() error {
	for _, seas := range c.Seasonality {
		if seas.Name == "" || seas.Period <= 0 || seas.Orders <= 0 {
			return fmt.Errorf("seasonality %q period %s orders %d, %w", seas.Name, seas.Period, seas.Orders, ErrInvalidSeasonality)
		}
	}
	if c.NumChangepoints < 0 {
		return fmt.Errorf("%d changepoints, %w", c.NumChangepoints, ErrInvalidChangepoints)
	}
	if c.ChangepointRange < 0 || c.ChangepointRange > 1 {
		return fmt.Errorf("changepoint range %.3f, %w", c.ChangepointRange, ErrInvalidChangepoints)
	}
	if c.Regularization < 0 {
		return fmt.Errorf("regularization %.3f, %w", c.Regularization, linearmodel.ErrNegativeLambda)
	}
	_, err := c.calendar()
	return err
}

func (c ComponentOptions) calendar() ([]*cal.Holiday, error) {
	hols := make([]*cal.Holiday, 0, len(c.Holidays))
	for _, name := range c.Holidays {
		hol, exists := holidays[name]
		if !exists {
			return nil, fmt.Errorf("%q, expected one of %v, %w", name, HolidayNames(), ErrUnknownHoliday)
		}
		hols = append(hols, hol)
	}
	return hols, nil
}

func (c ComponentOptions) tablePrint(w io.Writer, prefix, indent string, indentGrowth int) error {
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	noCfg := " None"
	if len(c.Seasonality) > 0 {
		noCfg = ""
	}
	if _, err := fmt.Fprintf(w, "%s%sSeasonality:%s\n", prefix, indentExpand(indent, indentGrowth), noCfg); err != nil {
		return err
	}
	if len(c.Seasonality) > 0 {
		fmt.Fprintf(tbl, "%s%sName\tPeriod\tOrders\t\n", prefix, indentExpand(indent, indentGrowth+1))
	}
	for _, seasCfg := range c.Seasonality {
		fmt.Fprintf(tbl, "%s%s%s\t%s\t%d\t\n",
			prefix, indentExpand(indent, indentGrowth+1),
			seasCfg.Name, seasCfg.Period, seasCfg.Orders)
	}
	if err := tbl.Flush(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "%s%sChangepoints: %d within first %.0f%%\n",
		prefix, indentExpand(indent, indentGrowth), c.NumChangepoints, c.ChangepointRange*100); err != nil {
		return err
	}
	if c.Regularization > 0 {
		if _, err := fmt.Fprintf(w, "%s%sRegularization: lasso %.3g\n",
			prefix, indentExpand(indent, indentGrowth), c.Regularization); err != nil {
			return err
		}
	}

	if len(c.Holidays) == 0 {
		_, err := fmt.Fprintf(w, "%s%sHolidays: None\n", prefix, indentExpand(indent, indentGrowth))
		return err
	}
	_, err := fmt.Fprintf(w, "%s%sHolidays: %v, Before: %s, After: %s\n",
		prefix, indentExpand(indent, indentGrowth), c.Holidays, c.HolidayBefore, c.HolidayAfter)
	return err
}

// OutlierOptions drops training points whose series residual falls outside the tukey fences and
// refits, for up to NumPasses passes
type OutlierOptions struct {
	NumPasses       int     `json:"num_passes" yaml:"num_passes"`
	LowerPercentile float64 `json:"lower_percentile" yaml:"lower_percentile"`
	UpperPercentile float64 `json:"upper_percentile" yaml:"upper_percentile"`
	TukeyFactor     float64 `json:"tukey_factor" yaml:"tukey_factor"`
}

func NewOutlierOptions() *OutlierOptions {
	return &OutlierOptions{
		NumPasses:       3,
		LowerPercentile: 0.1,
		UpperPercentile: 0.9,
		TukeyFactor:     1.0,
	}
}

// Validate checks the pass count, the percentile range and the tukey factor
func (o *OutlierOptions) Validate() error {
	if o.NumPasses < 0 {
		return fmt.Errorf("%d passes, %w", o.NumPasses, ErrInvalidOutlier)
	}
	if o.LowerPercentile < 0 || o.UpperPercentile > 1 || o.LowerPercentile >= o.UpperPercentile {
		return fmt.Errorf("percentiles [%.3f, %.3f], %w", o.LowerPercentile, o.UpperPercentile, ErrInvalidOutlier)
	}
	if o.TukeyFactor < 0 {
		return fmt.Errorf("tukey factor %.3f, %w", o.TukeyFactor, ErrInvalidOutlier)
	}
	return nil
}

// Options configures the series fit and the uncertainty fit on the rolling residual deviation
type Options struct {
	Series      ComponentOptions `json:"series" yaml:"series"`
	Uncertainty ComponentOptions `json:"uncertainty" yaml:"uncertainty"`

	// Outlier removal is disabled when nil
	Outlier *OutlierOptions `json:"outlier,omitempty" yaml:"outlier"`

	ResidualWindow int     `json:"residual_window" yaml:"residual_window"`
	ResidualZscore float64 `json:"residual_zscore" yaml:"residual_zscore"`
}

// NewDefaultOptions returns options suited to a long daily price history
func NewDefaultOptions() *Options {
	return &Options{
		Series: ComponentOptions{
			Seasonality: []SeasonalityConfig{
				NewWeeklySeasonalityConfig(3),
				NewYearlySeasonalityConfig(10),
			},
			NumChangepoints:  25,
			ChangepointRange: 0.8,
			Holidays:         []string{"christmas", "new_year", "thanksgiving"},
			HolidayBefore:    24 * time.Hour,
			HolidayAfter:     24 * time.Hour,
		},
		Uncertainty: ComponentOptions{
			Seasonality: []SeasonalityConfig{
				NewYearlySeasonalityConfig(2),
			},
			ChangepointRange: 0.8,
		},
		ResidualWindow: DefaultResidualWindow,
		ResidualZscore: DefaultResidualZscore,
	}
}

// Validate checks both component options and the residual settings
func (o *Options) Validate() error {
	if err := o.Series.Validate(); err != nil {
		return fmt.Errorf("series, %w", err)
	}
	if err := o.Uncertainty.Validate(); err != nil {
		return fmt.Errorf("uncertainty, %w", err)
	}
	if o.Outlier != nil {
		if err := o.Outlier.Validate(); err != nil {
			return err
		}
	}
	if o.ResidualWindow < MinResidualWindow {
		return fmt.Errorf("residual window %d less than %d, %w", o.ResidualWindow, MinResidualWindow, ErrInvalidResidual)
	}
	if o.ResidualZscore < 0 {
		return fmt.Errorf("residual zscore %.3f, %w", o.ResidualZscore, ErrInvalidResidual)
	}
	return nil
}

func indentExpand(indent string, growth int) string {
	indentByte := []byte(indent)
	out := make([]byte, 0, len(indent)*growth)
	for i := 0; i < growth; i++ {
		out = append(out, indentByte...)
	}
	return string(out)
}

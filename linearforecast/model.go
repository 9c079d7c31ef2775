package linearforecast

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/aouyang1/go-pricecast/feature"
	"github.com/aouyang1/go-pricecast/forecast"
	"github.com/goccy/go-json"
)

// Model represents a serializeable summary of a fit storing the options, fit scores, and
// coefficients of the series and uncertainty components
type Model struct {
	Options        *Options       `json:"options"`
	TrainStart     time.Time      `json:"train_start_time"`
	TrainEnd       time.Time      `json:"train_end_time"`
	ResidualWindow int            `json:"residual_window"`
	Outliers       int            `json:"outliers"`
	Series         ComponentModel `json:"series_model"`
	Uncertainty    ComponentModel `json:"uncertainty_model"`
}

// ComponentModel stores the intercept and coefficients of a single linear fit
type ComponentModel struct {
	Intercept    float64          `json:"intercept"`
	Changepoints []time.Time      `json:"changepoints"`
	Weights      []FeatureWeight  `json:"coefficients"`
	Scores       *forecast.Scores `json:"scores"`
}

// FeatureWeight represents a feature described with a type e.g. changepoint, labels and the value
type FeatureWeight struct {
	Labels map[string]string   `json:"labels"`
	Type   feature.FeatureType `json:"type"`
	Value  float64             `json:"value"`
}

func NewFeatureWeight(f feature.Feature, val float64) FeatureWeight {
	return FeatureWeight{
		Labels: f.Decode(),
		Type:   f.Type(),
		Value:  val,
	}
}

// WriteJSON encodes the model as indented json
func (m Model) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// TablePrint writes a human readable summary of the model
func (m Model) TablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%s%sForecast:\n", prefix, indentExpand(indent, 0)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sTraining: %s to %s\n", prefix, indentExpand(indent, 1),
		m.TrainStart.Format(time.DateOnly), m.TrainEnd.Format(time.DateOnly)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sResidual Window: %d\n", prefix, indentExpand(indent, 1), m.ResidualWindow); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%sOutliers Removed: %d\n", prefix, indentExpand(indent, 1), m.Outliers); err != nil {
		return err
	}

	if err := m.Series.tablePrint(w, "Series", m.optionsFor(true), prefix, indent, 1); err != nil {
		return err
	}
	return m.Uncertainty.tablePrint(w, "Uncertainty", m.optionsFor(false), prefix, indent, 1)
}

func (m Model) optionsFor(series bool) *ComponentOptions {
	if m.Options == nil {
		return nil
	}
	if series {
		return &m.Options.Series
	}
	return &m.Options.Uncertainty
}

func (c ComponentModel) tablePrint(w io.Writer, name string, opt *ComponentOptions, prefix, indent string, indentGrowth int) error {
	if _, err := fmt.Fprintf(w, "%s%s%s:\n", prefix, indentExpand(indent, indentGrowth), name); err != nil {
		return err
	}
	if opt != nil {
		if err := opt.tablePrint(w, prefix, indent, indentGrowth+1); err != nil {
			return err
		}
	}

	if c.Scores != nil {
		if _, err := fmt.Fprintf(w, "%s%sScores:\n", prefix, indentExpand(indent, indentGrowth+1)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s%sMAPE: %.3f    MSE: %.3f    R2: %.3f\n",
			prefix, indentExpand(indent, indentGrowth+2),
			c.Scores.MAPE,
			c.Scores.MSE,
			c.Scores.R2,
		); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "%s%sWeights:\n", prefix, indentExpand(indent, indentGrowth+1)); err != nil {
		return err
	}
	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(tbl, "%s%sType\tLabels\tValue\t\n", prefix, indentExpand(indent, indentGrowth+2)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(tbl, "%s%sintercept\t{}\t%.3f\t\n", prefix, indentExpand(indent, indentGrowth+2), c.Intercept); err != nil {
		return err
	}
	for _, fw := range c.Weights {
		labelOut, err := json.Marshal(fw.Labels)
		if err != nil {
			return err
		}
		val := fmt.Sprintf("%.3f", fw.Value)
		if fw.Value == 0 {
			val = "..."
		}
		if _, err := fmt.Fprintf(tbl, "%s%s%s\t%s\t%s\t\n",
			prefix, indentExpand(indent, indentGrowth+2),
			fw.Type, string(labelOut), val); err != nil {
			return err
		}
	}
	return tbl.Flush()
}

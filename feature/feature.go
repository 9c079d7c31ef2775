// Package feature generates the labeled regressors used by the linear forecasting backend:
// growth, changepoint trend, fourier seasonality, and holiday windows.
package feature

type FeatureType string

const (
	FeatureTypeGrowth      FeatureType = "growth"
	FeatureTypeChangepoint FeatureType = "changepoint"
	FeatureTypeSeasonality FeatureType = "seasonality"
	FeatureTypeEvent       FeatureType = "event"
)

// Feature is a labeled regressor column
type Feature interface {
	String() string
	Get(string) (string, bool)
	Type() FeatureType
	Decode() map[string]string
}

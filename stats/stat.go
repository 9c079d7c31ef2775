// Package stats detects outliers in a fit residual with tukey fences around a percentile range.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TukeyFences returns the bounds outside of which a value is an outlier. The inner range spans
// the lower to upper percentile and is widened on both sides by the tukey factor times its
// width. Percentiles are clamped to [0, 1] and a negative factor is treated as zero.
func TukeyFences(y []float64, lowerPerc, upperPerc, tukeyFactor float64) (float64, float64) {
	if len(y) == 0 {
		return math.Inf(-1), math.Inf(1)
	}
	lowerPerc = math.Max(lowerPerc, 0.0)
	upperPerc = math.Min(upperPerc, 1.0)
	tukeyFactor = math.Max(tukeyFactor, 0.0)

	sorted := make([]float64, len(y))
	copy(sorted, y)
	sort.Float64s(sorted)

	lower := stat.Quantile(lowerPerc, stat.Empirical, sorted, nil)
	upper := stat.Quantile(upperPerc, stat.Empirical, sorted, nil)
	innerRange := upper - lower
	return lower - innerRange*tukeyFactor, upper + innerRange*tukeyFactor
}

// DetectOutliers returns the ascending indices of values strictly outside the tukey fences
func DetectOutliers(y []float64, lowerPerc, upperPerc, tukeyFactor float64) []int {
	lower, upper := TukeyFences(y, lowerPerc, upperPerc, tukeyFactor)

	var outlierIdx []int
	for i, v := range y {
		if v > upper || v < lower {
			outlierIdx = append(outlierIdx, i)
		}
	}
	return outlierIdx
}

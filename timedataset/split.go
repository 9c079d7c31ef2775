package timedataset

import (
	"fmt"
	"math"
)

// Split holds a chronological partition of a series. Train followed by Test reconstructs the
// original series exactly.
type Split struct {
	Train *TimeSeries
	Test  *TimeSeries
}

// ChronologicalSplit partitions the series into a training prefix and a held out suffix of
// round(n*testFraction) points. The suffix always has at least one point and the prefix is
// never empty.
func ChronologicalSplit(series *TimeSeries, testFraction float64) (Split, error) {
	if math.IsNaN(testFraction) || testFraction <= 0 || testFraction >= 1 {
		return Split{}, fmt.Errorf("test fraction %.3f must be in (0, 1), %w", testFraction, ErrValidation)
	}
	n := series.Len()
	if n < 2 {
		return Split{}, fmt.Errorf("series of length %d is too short to split, %w", n, ErrValidation)
	}

	k := int(math.Round(float64(n) * testFraction))
	k = max(k, 1)
	k = min(k, n-1)

	return Split{
		Train: series.Slice(0, n-k),
		Test:  series.Slice(n-k, n),
	}, nil
}

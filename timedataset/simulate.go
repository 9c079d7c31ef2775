package timedataset

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/floats"
)

// GenerateTradingDays returns n consecutive weekdays starting at or after start
func GenerateTradingDays(start time.Time, n int) []time.Time {
	t := make([]time.Time, 0, n)
	for d := Day(start); len(t) < n; d = d.AddDate(0, 0, 1) {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		}
		t = append(t, d)
	}
	return t
}

type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateTrendY generates a linear trend with slope per day starting from the first time point
func GenerateTrendY(t []time.Time, slopePerDay float64) Series {
	y := make([]float64, len(t))
	if len(t) == 0 {
		return y
	}
	for i := range t {
		y[i] = slopePerDay * t[i].Sub(t[0]).Hours() / 24.0
	}
	return Series(y)
}

func GenerateWaveY(t []time.Time, amp, periodSec, order, timeOffset float64) Series {
	n := len(t)
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		val := amp * math.Sin(2.0*math.Pi*order/periodSec*(float64(t[i].Unix())+timeOffset))
		y = append(y, val)
	}
	return Series(y)
}

func GenerateNoise(n int, noiseScale float64, rng *rand.Rand) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, rng.NormFloat64()*noiseScale)
	}
	return Series(y)
}

// ToSeries rounds the generated values to cents and builds a validated TimeSeries
func (s Series) ToSeries(t []time.Time) (*TimeSeries, error) {
	points := make([]ObservedPoint, len(t))
	for i := range t {
		points[i] = ObservedPoint{Date: t[i], Price: decimal.NewFromFloat(s[i]).Round(2)}
	}
	return New(points)
}

package feature

import (
	"fmt"
	"strings"
	"time"
)

const GrowthLinear = "linear"

type Growth struct {
	Name string `json:"name"`
}

func NewGrowth(name string) *Growth {
	return &Growth{name}
}

// Linear returns the linear growth feature
func Linear() *Growth {
	return NewGrowth(GrowthLinear)
}

// String returns the string representation of the growth feature
func (g Growth) String() string {
	return fmt.Sprintf("growth_%s", g.Name)
}

// Get returns the value of an arbitrary label annd returns the value along with whether
// the label exists
func (g Growth) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return g.Name, true
	}
	return "", false
}

// Type returns the type of this feature
func (g Growth) Type() FeatureType {
	return FeatureTypeGrowth
}

// Decode converts the feature into a map of label values
func (g Growth) Decode() map[string]string {
	res := make(map[string]string)
	res["name"] = g.Name
	return res
}

// Generate scales time linearly so the training start maps to 0 and the training end maps to 1.
// Times past the training end extrapolate beyond 1.
func (g Growth) Generate(t []time.Time, trainStart, trainEnd time.Time) []float64 {
	span := trainEnd.Sub(trainStart).Seconds()
	res := make([]float64, len(t))
	if span <= 0 {
		return res
	}
	for i, tPnt := range t {
		res[i] = tPnt.Sub(trainStart).Seconds() / span
	}
	return res
}

package feature

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type ChangepointComp string

const ChangepointCompSlope ChangepointComp = "slope"

// Changepoint feature represents a trend change starting at a point in time. Only the slope
// component is modeled so the intercept remains the single level term.
type Changepoint struct {
	Name            string          `json:"name"`
	ChangepointComp ChangepointComp `json:"changepoint_component"`
	T               time.Time       `json:"-"`
}

func NewChangepoint(name string, t time.Time) *Changepoint {
	return &Changepoint{Name: name, ChangepointComp: ChangepointCompSlope, T: t}
}

func (c Changepoint) String() string {
	return fmt.Sprintf("chpnt_%s_%s", c.Name, c.ChangepointComp)
}

func (c Changepoint) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return c.Name, true
	case "changepoint_component":
		return string(c.ChangepointComp), true
	}
	return "", false
}

func (c Changepoint) Type() FeatureType {
	return FeatureTypeChangepoint
}

func (c Changepoint) Decode() map[string]string {
	res := make(map[string]string)
	res["name"] = c.Name
	res["changepoint_component"] = string(c.ChangepointComp)
	return res
}

// Generate returns a ramp that is 0 before the changepoint and grows to 1 at the training end
func (c Changepoint) Generate(t []time.Time, trainEnd time.Time) []float64 {
	res := make([]float64, len(t))
	span := trainEnd.Sub(c.T).Seconds()
	if span <= 0 {
		return res
	}
	for i, tPnt := range t {
		if tPnt.After(c.T) {
			res[i] = tPnt.Sub(c.T).Seconds() / span
		}
	}
	return res
}

// AutoChangepoints places n evenly spaced changepoints strictly inside the first rangeFrac of
// the training window. The training start itself is never a changepoint.
func AutoChangepoints(trainStart, trainEnd time.Time, n int, rangeFrac float64) []*Changepoint {
	if n <= 0 || !trainEnd.After(trainStart) {
		return nil
	}
	if rangeFrac <= 0 || rangeFrac > 1 {
		rangeFrac = 1
	}
	window := time.Duration(math.Round(float64(trainEnd.Sub(trainStart)) * rangeFrac))
	step := window / time.Duration(n+1)
	if step <= 0 {
		return nil
	}

	chpts := make([]*Changepoint, 0, n)
	for i := 1; i <= n; i++ {
		chpts = append(chpts, NewChangepoint("auto_"+strconv.Itoa(i), trainStart.Add(step*time.Duration(i))))
	}
	return chpts
}

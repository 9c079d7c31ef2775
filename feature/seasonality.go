package feature

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

type FourierComp string

const (
	FourierCompSin FourierComp = "sin"
	FourierCompCos FourierComp = "cos"
)

type Seasonality struct {
	Name        string      `json:"name"`
	FourierComp FourierComp `json:"fourier_component"`
	Order       int         `json:"order"`
}

func NewSeasonality(name string, fcomp FourierComp, order int) *Seasonality {
	return &Seasonality{name, fcomp, order}
}

func (s Seasonality) String() string {
	return fmt.Sprintf("seas_%s_%02d_%s", s.Name, s.Order, s.FourierComp)
}

func (s Seasonality) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return s.Name, true
	case "fourier_component":
		return string(s.FourierComp), true
	case "order":
		return strconv.Itoa(s.Order), true
	}
	return "", false
}

func (s Seasonality) Type() FeatureType {
	return FeatureTypeSeasonality
}

func (s Seasonality) Decode() map[string]string {
	res := make(map[string]string)
	res["name"] = s.Name
	res["fourier_component"] = string(s.FourierComp)
	res["order"] = strconv.Itoa(s.Order)
	return res
}

// Generate evaluates the fourier component on the epoch seconds of each time point
func (s Seasonality) Generate(t []time.Time, period time.Duration) []float64 {
	omega := 2.0 * math.Pi * float64(s.Order) / period.Seconds()
	res := make([]float64, len(t))
	for i, tPnt := range t {
		rad := omega * float64(tPnt.Unix())
		switch s.FourierComp {
		case FourierCompSin:
			res[i] = math.Sin(rad)
		case FourierCompCos:
			res[i] = math.Cos(rad)
		}
	}
	return res
}

// Fourier generates the sin and cos features for orders 1 through orders of the given period
func Fourier(t []time.Time, name string, period time.Duration, orders int) *Set {
	s := NewSet(len(t))
	for order := 1; order <= orders; order++ {
		sinFeat := NewSeasonality(name, FourierCompSin, order)
		cosFeat := NewSeasonality(name, FourierCompCos, order)
		s.Set(sinFeat, sinFeat.Generate(t, period))
		s.Set(cosFeat, cosFeat.Generate(t, period))
	}
	return s
}

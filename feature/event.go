package feature

import (
	"fmt"
	"strings"
	"time"

	"github.com/rickar/cal/v2"
)

// Event feature representing a recurring window in time, such as a holiday, where we expect a
// level shift in the series.
type Event struct {
	Name string `json:"name"`
}

// NewEvent creates a new event instance given a name
func NewEvent(name string) *Event {
	return &Event{name}
}

// String returns the string representation of the event feature
func (e Event) String() string {
	return fmt.Sprintf("event_%s", e.Name)
}

// Get returns the value of an arbitrary label annd returns the value along with whether
// the label exists
func (e Event) Get(label string) (string, bool) {
	switch strings.ToLower(label) {
	case "name":
		return e.Name, true
	}
	return "", false
}

// Type returns the type of this feature
func (e Event) Type() FeatureType {
	return FeatureTypeEvent
}

// Decode converts the feature into a map of label values
func (e Event) Decode() map[string]string {
	res := make(map[string]string)
	res["name"] = e.Name
	return res
}

// HolidayEvent names the event feature after the holiday
func HolidayEvent(hol *cal.Holiday) *Event {
	return NewEvent(strings.ReplaceAll(strings.ToLower(hol.Name), " ", "_"))
}

// Window is a half open [Start, End) span of time
type Window struct {
	Start time.Time
	End   time.Time
}

func (w Window) contains(t time.Time) bool {
	return (t.After(w.Start) || t.Equal(w.Start)) && t.Before(w.End)
}

// HolidayWindows returns the observed date windows of the holiday for every year touched by
// start through end, plus one year on each side since observed dates can cross a year boundary.
// Each window spans the observed calendar day padded by durBefore and durAfter.
func HolidayWindows(hol *cal.Holiday, start, end time.Time, durBefore, durAfter time.Duration) []Window {
	var windows []Window
	for year := start.Year() - 1; year <= end.Year()+1; year++ {
		_, observed := hol.Calc(year)
		if observed.IsZero() {
			continue
		}
		y, m, d := observed.Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		windows = append(windows, Window{
			Start: day.Add(-durBefore),
			End:   day.Add(24 * time.Hour).Add(durAfter),
		})
	}
	return windows
}

// Generate returns 1 for every time point inside any of the windows and 0 elsewhere
func (e Event) Generate(t []time.Time, windows []Window) []float64 {
	res := make([]float64, len(t))
	for i, tPnt := range t {
		for _, w := range windows {
			if w.contains(tPnt) {
				res[i] = 1.0
				break
			}
		}
	}
	return res
}

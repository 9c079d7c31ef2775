package timedataset

import "time"

type TimeSlice []time.Time

func (t TimeSlice) StartTime() time.Time {
	var startTime time.Time
	if len(t) < 1 {
		return startTime
	}
	return t[0]
}

func (t TimeSlice) EndTime() time.Time {
	var lastTime time.Time
	if len(t) < 1 {
		return lastTime
	}

	lastTime = t[len(t)-1]
	return lastTime
}

// Day truncates a time to midnight UTC of the same calendar day in the time's own location
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DailyRange returns every calendar day from start through end inclusive. An end before
// start yields an empty slice.
func DailyRange(start, end time.Time) TimeSlice {
	start, end = Day(start), Day(end)
	if end.Before(start) {
		return TimeSlice{}
	}
	n := int(end.Sub(start)/(24*time.Hour)) + 1
	t := make(TimeSlice, 0, n)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		t = append(t, d)
	}
	return t
}

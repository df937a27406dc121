package event

import (
	"strconv"
	"strings"
	"time"
)

// At combines a calendar day with an "HH:MM" clock capture. An empty or
// unparseable capture returns the zero time.Time (the "not announced"
// sentinel used throughout the package).
func At(day time.Time, clock string) time.Time {
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return time.Time{}
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return time.Time{}
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return time.Time{}
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

// AddHoursClamped returns t shifted forward by the given number of hours.
// If the shift crosses into the next calendar day the result is clamped to
// exactly 00:00 of that following day, so a computed end time never drifts
// past midnight. The zero time passes through unchanged.
func AddHoursClamped(t time.Time, hours int) time.Time {
	if t.IsZero() {
		return t
	}
	shifted := t.Add(time.Duration(hours) * time.Hour)
	if shifted.Day() == t.Day() {
		return shifted
	}
	next := t.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, t.Location())
}

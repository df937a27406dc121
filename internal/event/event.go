package event

import (
	"fmt"
	"time"
)

// Record represents one event parsed from the venue schedule page.
// Doors and Begin use the zero time.Time as "not announced"; after extraction
// at least one of the two is always set.
type Record struct {
	Category    string    `json:"category"`
	Artist      string    `json:"artist"`
	Day         time.Time `json:"day"` // date only, midnight local
	Doors       time.Time `json:"doors,omitzero"`
	Begin       time.Time `json:"begin,omitzero"`
	Description string    `json:"description"`
}

// Summary returns the identity key used to match this record against
// calendar entries: "[Category] Artist".
func (r Record) Summary() string {
	return fmt.Sprintf("[%s] %s", r.Category, r.Artist)
}

// DayHuman formats the event date the way the venue prints it.
func (r Record) DayHuman() string {
	return r.Day.Format("02.01.2006")
}

// DoorsHuman formats the door time, or "??:??" when not announced.
func (r Record) DoorsHuman() string {
	return clockHuman(r.Doors)
}

// BeginHuman formats the performance start time, or "??:??" when not announced.
func (r Record) BeginHuman() string {
	return clockHuman(r.Begin)
}

func clockHuman(t time.Time) string {
	if t.IsZero() {
		return "??:??"
	}
	return t.Format("15:04")
}

func (r Record) String() string {
	return fmt.Sprintf("%s am %s um %s Uhr (Einlass ab %s Uhr)",
		r.Summary(), r.DayHuman(), r.BeginHuman(), r.DoorsHuman())
}

// Remote represents an entry that already exists in the calendar. Ref is an
// opaque handle owned by the store; the sync core only passes it back for
// updates and deletes.
type Remote struct {
	Ref     string
	Summary string
	Start   time.Time
	End     time.Time
}

// SameDay reports whether the remote entry starts on the given calendar day.
func (r Remote) SameDay(day time.Time) bool {
	y1, m1, d1 := r.Start.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

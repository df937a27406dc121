package cli

import (
	"sort"
	"strings"
	"time"

	"github.com/jbehrens/sporthalle-sync/internal/event"
)

// sortRecords orders events chronologically for output: by day, then by
// start-of-evening time, then case-insensitively by artist.
func sortRecords(records []event.Record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Day.Equal(records[j].Day) {
			return records[i].Day.Before(records[j].Day)
		}
		si, sj := startOf(records[i]), startOf(records[j])
		if !si.Equal(sj) {
			return si.Before(sj)
		}
		return strings.ToLower(records[i].Artist) < strings.ToLower(records[j].Artist)
	})
}

// startOf picks the first announced time of an event, doors before begin.
func startOf(r event.Record) time.Time {
	if !r.Doors.IsZero() {
		return r.Doors
	}
	return r.Begin
}

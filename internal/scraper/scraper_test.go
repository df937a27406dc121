package scraper

import (
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const fallbackHour = 16

func loadFixture(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/schedule.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return string(data)
}

func TestParseEvents(t *testing.T) {
	s := New(ScheduleURL, fallbackHour)

	events, err := s.parseEvents(strings.NewReader(loadFixture(t)))
	if err != nil {
		t.Fatalf("parseEvents failed: %v", err)
	}

	// The fixture holds 4 groups; the "Platzhalter" group has no parseable
	// date line and must be skipped without affecting the others.
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}

	t.Run("full group", func(t *testing.T) {
		evt := events[0]
		if evt.Artist != "DJ Test" {
			t.Errorf("artist = %q", evt.Artist)
		}
		if evt.Category != "Konzert" {
			t.Errorf("category = %q", evt.Category)
		}
		wantDay := time.Date(2025, time.June, 12, 0, 0, 0, 0, time.Local)
		if !evt.Day.Equal(wantDay) {
			t.Errorf("day = %v, expected %v", evt.Day, wantDay)
		}
		if !evt.Doors.Equal(time.Date(2025, time.June, 12, 18, 0, 0, 0, time.Local)) {
			t.Errorf("doors = %v", evt.Doors)
		}
		if !evt.Begin.Equal(time.Date(2025, time.June, 12, 20, 0, 0, 0, time.Local)) {
			t.Errorf("begin = %v", evt.Begin)
		}
	})

	t.Run("no times forces doors", func(t *testing.T) {
		evt := events[1]
		if evt.Artist != "The Quiet Ones" {
			t.Fatalf("artist = %q", evt.Artist)
		}
		want := time.Date(2025, time.June, 13, fallbackHour, 0, 0, 0, time.Local)
		if !evt.Doors.Equal(want) {
			t.Errorf("doors = %v, expected forced %v", evt.Doors, want)
		}
		if !evt.Begin.IsZero() {
			t.Errorf("begin should stay absent, got %v", evt.Begin)
		}
	})

	t.Run("doors only", func(t *testing.T) {
		evt := events[2]
		if evt.Artist != "Hallen Expo" {
			t.Fatalf("artist = %q", evt.Artist)
		}
		if !evt.Doors.Equal(time.Date(2025, time.June, 14, 9, 0, 0, 0, time.Local)) {
			t.Errorf("doors = %v", evt.Doors)
		}
		if !evt.Begin.IsZero() {
			t.Errorf("begin should be absent, got %v", evt.Begin)
		}
	})
}

func TestParseEventsStructureMismatch(t *testing.T) {
	// One start marker, zero end markers.
	page := `<html><body>
		<div class="rahmen_radius_l">DJ Test</div>
		<div>Do. 12.06.2025 Konzert</div>
	</body></html>`

	s := New(ScheduleURL, fallbackHour)
	events, err := s.parseEvents(strings.NewReader(page))

	var mismatch *StructureMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected StructureMismatchError, got %v", err)
	}
	if mismatch.StartCount != 1 || mismatch.EndCount != 0 {
		t.Errorf("unexpected counts in error: %+v", mismatch)
	}
	if len(events) != 0 {
		t.Errorf("expected zero events on mismatch, got %d", len(events))
	}
}

func TestParseEventsEmptyPage(t *testing.T) {
	s := New(ScheduleURL, fallbackHour)
	events, err := s.parseEvents(strings.NewReader("<html><body><p>Sommerpause</p></body></html>"))
	if err != nil {
		t.Fatalf("expected no error for a page without markers, got %v", err)
	}
	if len(events) != 0 {
		t.Errorf("expected zero events, got %d", len(events))
	}
}

func TestCollectGroupsIdempotent(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(loadFixture(t)))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	starts := doc.Find(startMarkerSelector)
	ends := doc.Find(endMarkerSelector)

	shape := func(groups [][]*goquery.Selection) [][]string {
		out := make([][]string, len(groups))
		for i, group := range groups {
			for _, sel := range group {
				out[i] = append(out[i], strings.TrimSpace(sel.Text()))
			}
		}
		return out
	}

	first := shape(collectGroups(starts, ends))
	second := shape(collectGroups(starts, ends))

	if !reflect.DeepEqual(first, second) {
		t.Errorf("grouping not idempotent:\nfirst:  %v\nsecond: %v", first, second)
	}
	if len(first) != 4 {
		t.Fatalf("expected 4 groups, got %d", len(first))
	}
	// Each group ends with its end-marker node (inclusive bound).
	if first[0][len(first[0])-1] != "Beginn: 20:00 Uhr" {
		t.Errorf("expected end marker inside group, got %v", first[0])
	}
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"12.06.2025", time.Date(2025, time.June, 12, 0, 0, 0, 0, time.Local), false},
		{"01.01.2026", time.Date(2026, time.January, 1, 0, 0, 0, 0, time.Local), false},
		{"12.06", time.Time{}, true},
		{"Sondertermin", time.Time{}, true},
		{"aa.bb.cccc", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDay(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseDay(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseDay(%q) unexpected error: %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("parseDay(%q) = %v, expected %v", tt.input, got, tt.want)
			}
		})
	}
}

package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jbehrens/sporthalle-sync/internal/event"
	"github.com/jbehrens/sporthalle-sync/internal/logger"
)

// The schedule announces times in a fixed German phrasing.
var (
	doorsPattern = regexp.MustCompile(`Einlass: (\d{2}:\d{2}) Uhr`)
	beginPattern = regexp.MustCompile(`Beginn: (\d{2}:\d{2}) Uhr`)
)

// extractEvent parses one marker-bounded node group into an event record.
// Node 0 carries the artist, node 1 the "weekday date category" line, nodes
// 2+ the free-form description the times are pulled from. Groups that cannot
// supply the two header nodes are skipped; the rest of the crawl continues.
func (s *Scraper) extractEvent(group []*goquery.Selection) (event.Record, bool) {
	if len(group) < 2 {
		logger.Info("Skipping group with too few nodes", logger.Fields{
			"nodes": len(group),
		})
		return event.Record{}, false
	}

	artist := strings.TrimSpace(group[0].Text())

	header := strings.Fields(group[1].Text())
	if len(header) < 2 {
		logger.Info("Skipping group with malformed header line", logger.Fields{
			"artist": artist,
			"header": strings.TrimSpace(group[1].Text()),
		})
		return event.Record{}, false
	}
	category := header[len(header)-1]

	day, err := parseDay(header[1])
	if err != nil {
		logger.Info("Skipping group with unparseable date", logger.Fields{
			"artist": artist,
			"date":   header[1],
		})
		return event.Record{}, false
	}

	var sb strings.Builder
	for _, sel := range group[2:] {
		sb.WriteString(strings.TrimSpace(sel.Text()))
	}
	description := sb.String()

	doors := event.At(day, firstCapture(doorsPattern, description))
	begin := event.At(day, firstCapture(beginPattern, description))

	if doors.IsZero() && begin.IsZero() {
		doors = time.Date(day.Year(), day.Month(), day.Day(), s.fallbackDoorsHour, 0, 0, 0, day.Location())
		logger.Info("Forced doors time due to missing data", logger.Fields{
			"artist": artist,
			"day":    day.Format("2006-01-02"),
			"hour":   s.fallbackDoorsHour,
		})
	}

	return event.Record{
		Category:    category,
		Artist:      artist,
		Day:         day,
		Doors:       doors,
		Begin:       begin,
		Description: description,
	}, true
}

// parseDay parses the schedule's DD.MM.YYYY date format into a local
// midnight timestamp.
func parseDay(s string) (time.Time, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("expected DD.MM.YYYY, got %q", s)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("expected DD.MM.YYYY, got %q", s)
		}
		nums[i] = n
	}
	return time.Date(nums[2], time.Month(nums[1]), nums[0], 0, 0, 0, 0, time.Local), nil
}

// firstCapture returns the first capture group of the first match, or "".
func firstCapture(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"

	"github.com/jbehrens/sporthalle-sync/internal/event"
)

const (
	ScheduleURL = "https://termine.sporthallehamburg.de/pr/clipper.php"
	UserAgent   = "sporthalle-sync/1.0 (github.com/jbehrens/sporthalle-sync)"
	Timeout     = 30 * time.Second

	// One fixed selector each; the page carries no better hooks.
	startMarkerSelector = ".rahmen_radius_l"
	endMarkerSelector   = `[style="margin-left:4px;margin-top:4px;font-size:8pt;margin-bottom:-8px"]`
)

// StructureMismatchError reports that the page yielded an unequal number of
// start and end markers. Any grouping over such a page would be unreliable,
// so the whole crawl aborts with no partial results.
type StructureMismatchError struct {
	StartCount int
	EndCount   int
}

func (e *StructureMismatchError) Error() string {
	return fmt.Sprintf("start marker count %d does not match end marker count %d", e.StartCount, e.EndCount)
}

// Scraper handles fetching and parsing the venue schedule page
type Scraper struct {
	client            *http.Client
	url               string
	fallbackDoorsHour int
}

// New creates a new Scraper for the given schedule URL. fallbackDoorsHour is
// the hour assumed for doors when an event announces no times at all.
func New(url string, fallbackDoorsHour int) *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: Timeout,
		},
		url:               url,
		fallbackDoorsHour: fallbackDoorsHour,
	}
}

// FetchEvents fetches the schedule page and parses all events from it.
// Transport errors and non-200 responses abort the crawl.
func (s *Scraper) FetchEvents(ctx context.Context) ([]event.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// The venue serves ISO-8859-1, not UTF-8.
	return s.parseEvents(charmap.ISO8859_1.NewDecoder().Reader(resp.Body))
}

// parseEvents extracts events from the decoded HTML
func (s *Scraper) parseEvents(r io.Reader) ([]event.Record, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	starts := doc.Find(startMarkerSelector)
	ends := doc.Find(endMarkerSelector)

	if starts.Length() != ends.Length() {
		return nil, &StructureMismatchError{StartCount: starts.Length(), EndCount: ends.Length()}
	}
	if starts.Length() == 0 {
		return nil, nil
	}

	groups := collectGroups(starts, ends)

	events := make([]event.Record, 0, len(groups))
	for _, group := range groups {
		rec, ok := s.extractEvent(group)
		if !ok {
			continue
		}
		events = append(events, rec)
	}
	return events, nil
}

// collectGroups partitions the document into one node group per start marker.
// End markers act as a membership set: starting at each start marker, sibling
// elements are collected in document order until an end marker (inclusive) or
// until siblings run out.
func collectGroups(starts, ends *goquery.Selection) [][]*goquery.Selection {
	endSet := make(map[*html.Node]struct{}, ends.Length())
	ends.Each(func(_ int, sel *goquery.Selection) {
		endSet[sel.Get(0)] = struct{}{}
	})

	groups := make([][]*goquery.Selection, 0, starts.Length())
	starts.Each(func(_ int, start *goquery.Selection) {
		group := []*goquery.Selection{start}
		cur := start
		for {
			if _, done := endSet[cur.Get(0)]; done {
				break
			}
			cur = cur.Next()
			if cur.Length() == 0 {
				break
			}
			group = append(group, cur)
		}
		groups = append(groups, group)
	})
	return groups
}

package caldav

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	cdav "github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"

	"github.com/jbehrens/sporthalle-sync/internal/event"
	"github.com/jbehrens/sporthalle-sync/internal/logger"
)

const (
	prodID  = "-//jbehrens//sporthalle-sync//EN"
	timeout = 30 * time.Second

	// Transient write failures (flaky network, 5xx) get a couple of
	// retries; anything that survives them is surfaced as that one
	// event's failure.
	maxRetries = 2
)

// Client talks to one calendar of one CalDAV account.
type Client struct {
	dav          *cdav.Client
	calendarPath string

	// UIDs seen during the last ListEvents, keyed by object path. Updates
	// must reuse the existing UID so the server treats them as rewrites,
	// not new events.
	mu   sync.Mutex
	uids map[string]string
}

// Dial connects to the CalDAV endpoint, discovers the account's calendars
// and binds to the one named calendarName (or the first calendar when
// calendarName is empty).
func Dial(ctx context.Context, url, username, password, calendarName string) (*Client, error) {
	httpClient := webdav.HTTPClientWithBasicAuth(&http.Client{Timeout: timeout}, username, password)

	dav, err := cdav.NewClient(httpClient, url)
	if err != nil {
		return nil, fmt.Errorf("creating caldav client: %w", err)
	}

	principal, err := dav.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return nil, fmt.Errorf("finding principal: %w", err)
	}
	homeSet, err := dav.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("finding calendar home set: %w", err)
	}
	calendars, err := dav.FindCalendars(ctx, homeSet)
	if err != nil {
		return nil, fmt.Errorf("listing calendars: %w", err)
	}
	if len(calendars) == 0 {
		return nil, fmt.Errorf("account has no calendars")
	}

	calendarPath := ""
	if calendarName == "" {
		calendarPath = calendars[0].Path
	} else {
		for _, cal := range calendars {
			if cal.Name == calendarName {
				calendarPath = cal.Path
				break
			}
		}
		if calendarPath == "" {
			return nil, fmt.Errorf("no calendar named %q", calendarName)
		}
	}

	logger.Debug("Bound to calendar", logger.Fields{"path": calendarPath})

	return &Client{
		dav:          dav,
		calendarPath: calendarPath,
		uids:         make(map[string]string),
	}, nil
}

// ListEvents returns a snapshot of all VEVENTs in the calendar.
func (c *Client) ListEvents(ctx context.Context) ([]event.Remote, error) {
	query := &cdav.CalendarQuery{
		CompRequest: cdav.CalendarCompRequest{
			Name: ical.CompCalendar,
			Comps: []cdav.CalendarCompRequest{{
				Name:  ical.CompEvent,
				Props: []string{ical.PropUID, ical.PropSummary, ical.PropDateTimeStart, ical.PropDateTimeEnd},
			}},
		},
		CompFilter: cdav.CompFilter{
			Name:  ical.CompCalendar,
			Comps: []cdav.CompFilter{{Name: ical.CompEvent}},
		},
	}

	objects, err := c.dav.QueryCalendar(ctx, c.calendarPath, query)
	if err != nil {
		return nil, fmt.Errorf("querying calendar: %w", err)
	}

	remotes := make([]event.Remote, 0, len(objects))
	uids := make(map[string]string, len(objects))
	for _, obj := range objects {
		remote, uid, ok := remoteFromObject(obj.Path, obj.Data)
		if !ok {
			logger.Warn("Skipping calendar object without a readable VEVENT", logger.Fields{
				"path": obj.Path,
			})
			continue
		}
		remotes = append(remotes, remote)
		uids[obj.Path] = uid
	}

	c.mu.Lock()
	c.uids = uids
	c.mu.Unlock()

	return remotes, nil
}

// CreateEvent puts a new single-VEVENT object into the calendar.
func (c *Client) CreateEvent(ctx context.Context, start, end time.Time, summary string) error {
	uid := uuid.NewString()
	path := c.objectPath(uid)
	cal := newEventCalendar(uid, summary, start, end)

	return c.withRetry(ctx, func() error {
		_, err := c.dav.PutCalendarObject(ctx, path, cal)
		return err
	})
}

// UpdateEvent rewrites the object at ref with new times and summary, keeping
// its UID stable so subscribers see an update rather than a new event.
func (c *Client) UpdateEvent(ctx context.Context, ref string, start, end time.Time, summary string) error {
	c.mu.Lock()
	uid, ok := c.uids[ref]
	c.mu.Unlock()
	if !ok {
		// Object was not part of the last snapshot; rewriting it with a
		// fresh UID is still a plain PUT to the same path.
		uid = uuid.NewString()
	}
	cal := newEventCalendar(uid, summary, start, end)

	return c.withRetry(ctx, func() error {
		_, err := c.dav.PutCalendarObject(ctx, ref, cal)
		return err
	})
}

// DeleteEvent removes the object at ref.
func (c *Client) DeleteEvent(ctx context.Context, ref string) error {
	return c.withRetry(ctx, func() error {
		return c.dav.RemoveAll(ctx, ref)
	})
}

func (c *Client) withRetry(ctx context.Context, op backoff.Operation) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	return backoff.Retry(op, policy)
}

func (c *Client) objectPath(uid string) string {
	return strings.TrimSuffix(c.calendarPath, "/") + "/" + uid + ".ics"
}

// newEventCalendar builds the single-VEVENT calendar object written for both
// creates and updates. Times are written as UTC instants.
func newEventCalendar(uid, summary string, start, end time.Time) *ical.Calendar {
	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, uid)
	ev.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ev.Props.SetDateTime(ical.PropDateTimeStart, start.UTC())
	ev.Props.SetDateTime(ical.PropDateTimeEnd, end.UTC())
	ev.Props.SetText(ical.PropSummary, summary)

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, prodID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Children = append(cal.Children, ev.Component)
	return cal
}

// remoteFromObject reads the first VEVENT of a calendar object into the
// model the reconciler works with. Times come back in the local zone so the
// day-matching rule compares local calendar days.
func remoteFromObject(path string, cal *ical.Calendar) (event.Remote, string, bool) {
	if cal == nil {
		return event.Remote{}, "", false
	}
	for _, ev := range cal.Events() {
		summary, err := ev.Props.Text(ical.PropSummary)
		if err != nil || summary == "" {
			continue
		}
		start, err := ev.DateTimeStart(time.Local)
		if err != nil {
			continue
		}
		end, err := ev.DateTimeEnd(time.Local)
		if err != nil {
			continue
		}
		uid, err := ev.Props.Text(ical.PropUID)
		if err != nil {
			uid = ""
		}
		return event.Remote{
			Ref:     path,
			Summary: summary,
			Start:   start,
			End:     end,
		}, uid, true
	}
	return event.Remote{}, "", false
}

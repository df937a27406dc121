package sync

import (
	"context"
	"time"

	"github.com/jbehrens/sporthalle-sync/internal/event"
)

// Store is the remote calendar as the sync core sees it. Implementations
// must be safe for concurrent per-record calls; the executor runs operations
// for different events in parallel.
type Store interface {
	// ListEvents returns a snapshot of all entries currently in the
	// calendar. It is called once per sync cycle; decisions are never made
	// against a re-fetched, moving target.
	ListEvents(ctx context.Context) ([]event.Remote, error)

	CreateEvent(ctx context.Context, start, end time.Time, summary string) error
	UpdateEvent(ctx context.Context, ref string, start, end time.Time, summary string) error
	DeleteEvent(ctx context.Context, ref string) error
}

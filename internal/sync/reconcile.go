package sync

import (
	"time"

	"github.com/jbehrens/sporthalle-sync/internal/config"
	"github.com/jbehrens/sporthalle-sync/internal/event"
)

// Policy holds the end-time offsets applied when deriving calendar entries
// from scraped records. Named knobs rather than inline literals: deployments
// have run with 3h/5h and 4h/6h variants.
type Policy struct {
	EndAfterBeginHours int
	EndAfterDoorsHours int
}

// DefaultPolicy returns the standard offsets.
func DefaultPolicy() Policy {
	return Policy{
		EndAfterBeginHours: config.DefaultEndAfterBeginHours,
		EndAfterDoorsHours: config.DefaultEndAfterDoorsHours,
	}
}

// CreateOp adds a new calendar entry.
type CreateOp struct {
	Summary string    `json:"summary"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// UpdateOp rewrites an existing entry's start, end and summary.
type UpdateOp struct {
	Ref     string    `json:"ref"`
	Summary string    `json:"summary"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// DeleteOp removes an entry no scraped record claims.
type DeleteOp struct {
	Ref     string `json:"ref"`
	Summary string `json:"summary"`
}

// Plan is the full set of operations needed to make the calendar match the
// scraped schedule. It is pure data; applying it is the executor's job.
type Plan struct {
	Creates   []CreateOp `json:"creates"`
	Updates   []UpdateOp `json:"updates"`
	Deletes   []DeleteOp `json:"deletes"`
	Unchanged int        `json:"unchanged"`
}

// Empty reports whether the plan would touch the calendar at all.
func (p Plan) Empty() bool {
	return len(p.Creates) == 0 && len(p.Updates) == 0 && len(p.Deletes) == 0
}

// BuildPlan diffs the target records against one remote snapshot and decides,
// per record, whether to create, update or leave alone, and per remote entry
// whether to delete.
//
// Matching is by identity key: a remote entry matches a record when its
// summary equals "[Category] Artist" and its start falls on the record's day.
// Deletion is keyed on summary membership alone; a remote entry whose summary
// appears anywhere in the target set is kept even if its date matches no
// record. That coarse rule is intentional: date corrections arrive as
// updates, not as delete/recreate churn.
func BuildPlan(targets []event.Record, remote []event.Remote, policy Policy) Plan {
	// Index the snapshot by summary so matching is O(targets + remote)
	// instead of a rescan per record. Slice order preserves the snapshot
	// order, so the first listed entry per key wins.
	bySummary := make(map[string][]event.Remote, len(remote))
	for _, r := range remote {
		bySummary[r.Summary] = append(bySummary[r.Summary], r)
	}

	var plan Plan
	targetSummaries := make(map[string]struct{}, len(targets))
	seen := make(map[string]struct{}, len(targets))

	for _, rec := range targets {
		summary := rec.Summary()
		targetSummaries[summary] = struct{}{}

		// A page occasionally repeats an entry; one decision per
		// identity key is enough and keeps the plan idempotent.
		key := summary + "|" + rec.Day.Format("2006-01-02")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		start, end := policy.times(rec)

		matched := false
		for _, r := range bySummary[summary] {
			if !r.SameDay(rec.Day) {
				continue
			}
			matched = true
			if !r.Start.Equal(start) || !r.End.Equal(end) {
				plan.Updates = append(plan.Updates, UpdateOp{
					Ref:     r.Ref,
					Summary: summary,
					Start:   start,
					End:     end,
				})
			} else {
				plan.Unchanged++
			}
			break
		}
		if !matched {
			plan.Creates = append(plan.Creates, CreateOp{
				Summary: summary,
				Start:   start,
				End:     end,
			})
		}
	}

	for _, r := range remote {
		if _, keep := targetSummaries[r.Summary]; !keep {
			plan.Deletes = append(plan.Deletes, DeleteOp{Ref: r.Ref, Summary: r.Summary})
		}
	}

	return plan
}

// times derives the calendar start and end for a record. Start prefers doors;
// end runs a fixed offset past begin (or doors when begin is unannounced),
// clamped so it never crosses past the following midnight.
func (p Policy) times(rec event.Record) (start, end time.Time) {
	if !rec.Doors.IsZero() {
		start = rec.Doors
	} else {
		start = rec.Begin
	}
	if !rec.Begin.IsZero() {
		end = event.AddHoursClamped(rec.Begin, p.EndAfterBeginHours)
	} else {
		end = event.AddHoursClamped(rec.Doors, p.EndAfterDoorsHours)
	}
	return start, end
}

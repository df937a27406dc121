package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jbehrens/sporthalle-sync/internal/event"
	"github.com/jbehrens/sporthalle-sync/internal/sync"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// PlanResult is the sync plan as reported to the user before it is applied.
type PlanResult struct {
	CheckedAt time.Time `json:"checked_at"`
	DryRun    bool      `json:"dry_run"`
	Scraped   int       `json:"scraped"`
	Plan      sync.Plan `json:"plan"`
}

// WritePlan writes the sync plan in the specified format
func WritePlan(w io.Writer, result *PlanResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writePlanText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteRecords writes crawled events in the specified format
func WriteRecords(w io.Writer, records []event.Record, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, records)
	case FormatText:
		return writeRecordsText(w, records)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writePlanText(w io.Writer, result *PlanResult) error {
	if result.DryRun {
		fmt.Fprintln(w, "DRY RUN - no calendar changes will be made")
	}

	plan := result.Plan
	if plan.Empty() {
		fmt.Fprintf(w, "Calendar is up to date (%d scraped, %d unchanged).\n",
			result.Scraped, plan.Unchanged)
		return nil
	}

	for _, op := range plan.Creates {
		fmt.Fprintf(w, "  CREATE: %s (%s - %s)\n", op.Summary,
			op.Start.Format("02.01.2006 15:04"), op.End.Format("15:04"))
	}
	for _, op := range plan.Updates {
		fmt.Fprintf(w, "  UPDATE: %s (%s - %s)\n", op.Summary,
			op.Start.Format("02.01.2006 15:04"), op.End.Format("15:04"))
	}
	for _, op := range plan.Deletes {
		fmt.Fprintf(w, "  DELETE: %s\n", op.Summary)
	}

	fmt.Fprintf(w, "\nTotal: %d creates, %d updates, %d deletes, %d unchanged\n",
		len(plan.Creates), len(plan.Updates), len(plan.Deletes), plan.Unchanged)
	return nil
}

func writeRecordsText(w io.Writer, records []event.Record) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	for _, rec := range records {
		fmt.Fprintln(w, rec.String())
	}
	fmt.Fprintf(w, "\nTotal: %d events\n", len(records))
	return nil
}

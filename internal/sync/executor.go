package sync

import (
	"context"
	"errors"
	"fmt"
	gosync "sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/jbehrens/sporthalle-sync/internal/logger"
)

// Executor applies a Plan against a Store with bounded concurrency.
//
// Two strictly ordered phases: all creates and updates run to completion
// before any delete starts, so an entry can never be deleted and recreated
// out of order within one cycle. A failed operation is logged and collected;
// it never cancels sibling operations in the same phase.
type Executor struct {
	store    Store
	workers  int
	dryRun   bool
	counters *logger.Counters
}

// NewExecutor creates an executor. workers bounds per-phase concurrency and
// is clamped to at least 1.
func NewExecutor(store Store, workers int, dryRun bool) *Executor {
	if workers < 1 {
		workers = 1
	}
	return &Executor{
		store:    store,
		workers:  workers,
		dryRun:   dryRun,
		counters: logger.NewCounters(),
	}
}

// Counters exposes the operation totals of the last Apply run.
func (e *Executor) Counters() *logger.Counters {
	return e.counters
}

// Apply executes the plan. In dry-run mode every decision is logged exactly
// as it would be applied, but the store is never called. The returned error
// joins all per-event failures; a non-nil result still means every sibling
// operation was attempted.
func (e *Executor) Apply(ctx context.Context, plan Plan) error {
	e.counters = logger.NewCounters()
	for i := 0; i < plan.Unchanged; i++ {
		e.counters.Incr("unchanged")
	}

	var (
		mu   gosync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
		e.counters.Incr("failed")
	}

	// Phase 1: creates and updates.
	p := pool.New().WithMaxGoroutines(e.workers)
	for _, op := range plan.Creates {
		p.Go(func() {
			if err := e.applyCreate(ctx, op); err != nil {
				fail(err)
			}
		})
	}
	for _, op := range plan.Updates {
		p.Go(func() {
			if err := e.applyUpdate(ctx, op); err != nil {
				fail(err)
			}
		})
	}
	p.Wait()

	// Phase 2: deletes, only after every create/update has finished.
	p = pool.New().WithMaxGoroutines(e.workers)
	for _, op := range plan.Deletes {
		p.Go(func() {
			if err := e.applyDelete(ctx, op); err != nil {
				fail(err)
			}
		})
	}
	p.Wait()

	logger.Info("Sync finished", e.counters.Snapshot())

	return errors.Join(errs...)
}

func (e *Executor) applyCreate(ctx context.Context, op CreateOp) error {
	if e.dryRun {
		logger.Info("Would create event", createFields(op))
		e.counters.Incr("created")
		return nil
	}
	if err := e.store.CreateEvent(ctx, op.Start, op.End, op.Summary); err != nil {
		logger.Error("Creating event failed", logger.Fields{"summary": op.Summary}, err)
		return fmt.Errorf("create %q: %w", op.Summary, err)
	}
	logger.Info("Created event", createFields(op))
	e.counters.Incr("created")
	return nil
}

func (e *Executor) applyUpdate(ctx context.Context, op UpdateOp) error {
	if e.dryRun {
		logger.Info("Would update event", updateFields(op))
		e.counters.Incr("updated")
		return nil
	}
	if err := e.store.UpdateEvent(ctx, op.Ref, op.Start, op.End, op.Summary); err != nil {
		logger.Error("Updating event failed", logger.Fields{"summary": op.Summary}, err)
		return fmt.Errorf("update %q: %w", op.Summary, err)
	}
	logger.Info("Updated event", updateFields(op))
	e.counters.Incr("updated")
	return nil
}

func (e *Executor) applyDelete(ctx context.Context, op DeleteOp) error {
	if e.dryRun {
		logger.Info("Would delete event", logger.Fields{"summary": op.Summary})
		e.counters.Incr("deleted")
		return nil
	}
	if err := e.store.DeleteEvent(ctx, op.Ref); err != nil {
		logger.Error("Deleting event failed", logger.Fields{"summary": op.Summary}, err)
		return fmt.Errorf("delete %q: %w", op.Summary, err)
	}
	logger.Info("Deleted event", logger.Fields{"summary": op.Summary})
	e.counters.Incr("deleted")
	return nil
}

func createFields(op CreateOp) logger.Fields {
	return logger.Fields{"summary": op.Summary, "start": op.Start, "end": op.End}
}

func updateFields(op UpdateOp) logger.Fields {
	return logger.Fields{"summary": op.Summary, "start": op.Start, "end": op.End}
}

// Package sync reconciles the freshly scraped event set against the remote
// calendar and applies the resulting plan.
//
// Reconciliation is a pure function from (target records, remote snapshot,
// policy) to a Plan of create/update/delete operations, so dry runs and tests
// exercise the exact decision path the real sync uses. The executor applies a
// Plan in two strictly ordered phases (creates and updates first, then
// deletes) with a bounded worker pool, isolating each event's failure from
// its siblings.
package sync

// Package scraper fetches the Sporthalle Hamburg schedule page and extracts
// event records from it.
//
// The page has no machine-readable schema. Each event is a run of sibling
// elements bounded by a start marker (a known CSS class) and an end marker (a
// known inline style). The scraper pairs those markers into groups and parses
// each group into an event.Record. A start/end count mismatch means the page
// layout changed and aborts the whole crawl; a single malformed group is
// skipped and logged without affecting its neighbors.
package scraper

// Package cli implements the command-line interface for sporthalle-sync.
//
// The root command runs a full crawl-and-sync cycle against the configured
// CalDAV calendar; the list subcommand only crawls and prints what the venue
// announces. Both support text and JSON output. Crawl failures (layout
// changes, transport errors) abort with a non-zero exit before any calendar
// mutation; individual event write failures are logged and do not change the
// exit status.
package cli

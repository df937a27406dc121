// Package event defines the event model shared by the scraper and the
// calendar sync: the Record parsed from the venue schedule, the Remote entry
// read back from the calendar, and the time helpers both sides use.
package event

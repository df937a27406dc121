// Package caldav implements the remote calendar store on top of a CalDAV
// server (Nextcloud in practice). It discovers the account's calendar once at
// dial time and then exposes plain list/create/update/delete operations on
// single-VEVENT objects, safe for concurrent per-event use by the sync
// executor.
package caldav

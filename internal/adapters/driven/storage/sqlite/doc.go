// Package sqlite persists search session state and query history.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. A single database backs two driven ports:
//
//   - SessionStore: the search view mirror, stored as JSON per key
//   - HistoryStore: submitted queries, most recent first
//
// Large session values (the accumulated result collection) are compressed
// with zstd before they are written.
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory.
//
// # Data Location
//
// By default, the database is stored at ~/.trawl/data/session.db
package sqlite

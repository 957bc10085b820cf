// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SearchStreamSource: Opens the NDJSON result stream for a query
//   - SessionStore: Generic key/value holder for the search view state
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - TorrentBackend: Magnet add/resolve. Without it, download is disabled.
//   - HistoryStore: Past queries. Without it, no suggestions are offered.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

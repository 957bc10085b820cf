// Package domain defines the core entities of trawl.
//
// This package is the innermost layer of the hexagonal architecture.
// It has NO external dependencies and defines the fundamental types:
//
//   - ResultRecord: one torrent search hit decoded from the result stream
//   - SortSpec: the active ordering of the result collection
//   - SessionState: the view state mirrored across remounts
//   - StreamEvent: one item of an ingestion run, tagged with its session token
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

package driving

import "github.com/custodia-labs/trawl/internal/core/domain"

// SessionService mirrors the search view state into the session store.
type SessionService interface {
	// Load returns the stored state and whether a prior session exists.
	Load() (domain.SessionState, bool)

	// Begin records a fresh search for query: results, filter, source and
	// scroll are cleared; sort is kept.
	Begin(query string) error

	SetTitleFilter(filter string) error
	SetSort(spec domain.SortSpec) error
	SetActiveSource(source string) error
	SetResults(results []domain.ResultRecord) error
	SetScrollOffset(offset int) error
}

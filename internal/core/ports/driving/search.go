package driving

import (
	"context"

	"github.com/custodia-labs/trawl/internal/core/domain"
)

// SearchService runs streaming searches. At most one ingestion run is
// active at a time; starting a new one cancels the previous run.
type SearchService interface {
	// Start opens a stream for query and returns the new session token with
	// the channel its events arrive on. The channel ends with a Done event
	// and is then closed. Blank queries fail with domain.ErrEmptyQuery
	// without touching the current session.
	Start(ctx context.Context, query string) (domain.SearchSession, <-chan domain.StreamEvent, error)

	// Cancel aborts the active run and invalidates its token.
	Cancel()

	// IsCurrent reports whether session is the active run's token.
	IsCurrent(session domain.SearchSession) bool

	// Loading reports whether the active run is still streaming.
	Loading() bool
}

package driven

import "context"

// HistoryStore records submitted queries.
type HistoryStore interface {
	// Add records a query, moving it to the front if already present.
	Add(ctx context.Context, query string) error

	// Recent returns up to limit queries starting with prefix, newest first.
	Recent(ctx context.Context, prefix string, limit int) ([]string, error)
}

package driving

import "context"

// HistoryService remembers submitted queries and offers them back.
type HistoryService interface {
	Record(ctx context.Context, query string) error
	Suggest(ctx context.Context, prefix string) ([]string, error)
}

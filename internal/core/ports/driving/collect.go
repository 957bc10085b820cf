package driving

import (
	"context"

	"github.com/custodia-labs/trawl/internal/core/domain"
)

// SearchCollector runs one-shot searches to completion. Each call has its
// own ingestion run, so concurrent calls do not supersede each other.
type SearchCollector interface {
	// Collect streams query and returns every record sorted by spec.
	// progress, if non-nil, is called with the running total after each
	// record. When the stream fails or ctx is cancelled the records
	// received so far are returned with the error.
	Collect(
		ctx context.Context, query string, spec domain.SortSpec, progress func(received int),
	) ([]domain.ResultRecord, error)
}

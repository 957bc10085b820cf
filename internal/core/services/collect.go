package services

import (
	"context"

	"github.com/custodia-labs/trawl/internal/core/domain"
	"github.com/custodia-labs/trawl/internal/core/ports/driven"
	"github.com/custodia-labs/trawl/internal/core/ports/driving"
	"github.com/custodia-labs/trawl/internal/logger"
)

// Ensure CollectorService implements the interface.
var _ driving.SearchCollector = (*CollectorService)(nil)

// CollectorService drains a search stream into a sorted collection.
type CollectorService struct {
	source driven.SearchStreamSource
}

// NewCollectorService creates a new collector service.
func NewCollectorService(source driven.SearchStreamSource) *CollectorService {
	return &CollectorService{source: source}
}

// Collect streams query to completion.
func (s *CollectorService) Collect(
	ctx context.Context, query string, spec domain.SortSpec, progress func(received int),
) ([]domain.ResultRecord, error) {
	if !spec.IsValid() {
		spec = domain.DefaultSortSpec()
	}

	run := NewSearchService(s.source)
	session, events, err := run.Start(ctx, query)
	if err != nil {
		return nil, err
	}
	defer run.Cancel()

	collection := []domain.ResultRecord{}
	for ev := range events {
		if ev.Session != session {
			continue
		}
		if ev.Done {
			if ev.Err != nil {
				logger.Debug("Collect %q ended with %d records: %v", query, len(collection), ev.Err)
			}
			return collection, ev.Err
		}
		collection = Insert(collection, ev.Record, spec)
		if progress != nil {
			progress(len(collection))
		}
	}

	// Closed without a terminal event only when the run was torn down.
	if ctx.Err() != nil {
		return collection, ctx.Err()
	}
	return collection, nil
}

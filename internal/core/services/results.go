package services

import (
	"sync"

	"github.com/custodia-labs/trawl/internal/core/domain"
	"github.com/custodia-labs/trawl/internal/core/ports/driving"
	"github.com/custodia-labs/trawl/internal/logger"
)

// Ensure ResultService implements the interface.
var _ driving.ResultService = (*ResultService)(nil)

// ResultService combines aggregation, faceting and fuzzy filtering.
// It caches one FilterIndex and rebuilds it only when handed a different
// collection snapshot.
type ResultService struct {
	mu    sync.Mutex
	index *FilterIndex
}

// NewResultService creates a new result service.
func NewResultService() *ResultService {
	return &ResultService{}
}

// Insert places record into collection at its sorted position.
func (s *ResultService) Insert(
	collection []domain.ResultRecord, record domain.ResultRecord, spec domain.SortSpec,
) []domain.ResultRecord {
	return Insert(collection, record, spec)
}

// Resort returns collection stably sorted by spec.
func (s *ResultService) Resort(collection []domain.ResultRecord, spec domain.SortSpec) []domain.ResultRecord {
	logger.Debug("Resorting %d results by %s", len(collection), spec)
	return Resort(collection, spec)
}

// Facets returns the source facets of collection.
func (s *ResultService) Facets(collection []domain.ResultRecord, streaming bool) []domain.FacetEntry {
	return Facets(collection, streaming)
}

// Filter narrows collection by source and fuzzy query.
func (s *ResultService) Filter(collection []domain.ResultRecord, query, activeSource string) []domain.ResultRecord {
	s.mu.Lock()
	if s.index == nil || s.index.Stale(collection) {
		s.index = NewFilterIndex(collection)
	}
	idx := s.index
	s.mu.Unlock()

	return idx.Filter(query, activeSource)
}

// Highlight returns the byte offsets of title matched by query.
func (s *ResultService) Highlight(query, title string) []int {
	return Highlight(query, title)
}

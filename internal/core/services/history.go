package services

import (
	"context"
	"strings"

	"github.com/custodia-labs/trawl/internal/core/ports/driven"
	"github.com/custodia-labs/trawl/internal/core/ports/driving"
	"github.com/custodia-labs/trawl/internal/logger"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// HistoryService remembers submitted queries for input suggestions.
type HistoryService struct {
	store driven.HistoryStore
	limit int
}

// NewHistoryService creates a new history service. A nil store disables
// history; Suggest then returns nothing.
func NewHistoryService(store driven.HistoryStore, limit int) *HistoryService {
	if limit <= 0 {
		limit = 20
	}
	return &HistoryService{store: store, limit: limit}
}

// Record stores a submitted query. Blank queries are ignored.
func (s *HistoryService) Record(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if s.store == nil || query == "" {
		return nil
	}
	return s.store.Add(ctx, query)
}

// Suggest returns recent queries starting with prefix, newest first.
func (s *HistoryService) Suggest(ctx context.Context, prefix string) ([]string, error) {
	if s.store == nil {
		return nil, nil
	}
	queries, err := s.store.Recent(ctx, strings.TrimSpace(prefix), s.limit)
	if err != nil {
		logger.Warn("Loading query history: %v", err)
		return nil, err
	}
	return queries, nil
}

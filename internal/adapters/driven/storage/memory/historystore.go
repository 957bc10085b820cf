package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/custodia-labs/trawl/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.HistoryStore.
type HistoryStore struct {
	mu      sync.Mutex
	queries []string // newest last
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Add records query as the newest entry, dropping any earlier duplicate.
func (s *HistoryStore) Add(_ context.Context, query string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = slices.DeleteFunc(s.queries, func(q string) bool { return q == query })
	s.queries = append(s.queries, query)
	return nil
}

// Recent returns up to limit queries with the given prefix, newest first.
func (s *HistoryStore) Recent(_ context.Context, prefix string, limit int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix = strings.ToLower(prefix)
	out := make([]string, 0, limit)
	for i := len(s.queries) - 1; i >= 0 && len(out) < limit; i-- {
		if strings.HasPrefix(strings.ToLower(s.queries[i]), prefix) {
			out = append(out, s.queries[i])
		}
	}
	return out, nil
}

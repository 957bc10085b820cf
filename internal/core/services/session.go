package services

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/custodia-labs/trawl/internal/core/domain"
	"github.com/custodia-labs/trawl/internal/core/ports/driven"
	"github.com/custodia-labs/trawl/internal/core/ports/driving"
	"github.com/custodia-labs/trawl/internal/logger"
)

// Session store keys.
const (
	KeyQuery        = "query"
	KeyTitleFilter  = "title_filter"
	KeySort         = "sort"
	KeyActiveSource = "active_source"
	KeyResults      = "results"
	KeyScrollOffset = "scroll_offset"
)

// Ensure SessionService implements the interface.
var _ driving.SessionService = (*SessionService)(nil)

// SessionService mirrors view state into a driven.SessionStore.
type SessionService struct {
	store driven.SessionStore
}

// NewSessionService creates a new session service.
func NewSessionService(store driven.SessionStore) *SessionService {
	return &SessionService{store: store}
}

// Load reads every field back. Missing or undecodable fields take their
// initial values; the second return is false when nothing was stored.
func (s *SessionService) Load() (domain.SessionState, bool) {
	state := domain.NewSessionState()

	state.Query, _ = lookup[string](s.store, KeyQuery)
	state.TitleFilter, _ = lookup[string](s.store, KeyTitleFilter)
	if spec, ok := lookup[domain.SortSpec](s.store, KeySort); ok && spec.IsValid() {
		state.Sort = spec
	}
	if src, ok := lookup[string](s.store, KeyActiveSource); ok && src != "" {
		state.ActiveSource = src
	}
	state.Results, _ = lookup[[]domain.ResultRecord](s.store, KeyResults)
	state.ScrollOffset, _ = lookup[int](s.store, KeyScrollOffset)

	if state.IsEmpty() {
		return domain.NewSessionState(), false
	}
	logger.Debug("Session loaded: query=%q results=%d offset=%d", state.Query, len(state.Results), state.ScrollOffset)
	return state, true
}

// Begin records a fresh search. The sort survives; everything else resets.
func (s *SessionService) Begin(query string) error {
	for _, kv := range []struct {
		key   string
		value any
	}{
		{KeyQuery, query},
		{KeyTitleFilter, ""},
		{KeyActiveSource, domain.AllSource},
		{KeyResults, []domain.ResultRecord{}},
		{KeyScrollOffset, 0},
	} {
		if err := s.set(kv.key, kv.value); err != nil {
			return err
		}
	}
	return nil
}

// SetTitleFilter stores the filter text.
func (s *SessionService) SetTitleFilter(filter string) error {
	return s.set(KeyTitleFilter, filter)
}

// SetSort stores the active sort spec.
func (s *SessionService) SetSort(spec domain.SortSpec) error {
	if !spec.IsValid() {
		return fmt.Errorf("%w: sort %q", domain.ErrInvalidInput, spec)
	}
	return s.set(KeySort, spec)
}

// SetActiveSource stores the selected facet.
func (s *SessionService) SetActiveSource(source string) error {
	return s.set(KeyActiveSource, source)
}

// SetResults stores the accumulated collection.
func (s *SessionService) SetResults(results []domain.ResultRecord) error {
	return s.set(KeyResults, results)
}

// SetScrollOffset stores the list scroll position.
func (s *SessionService) SetScrollOffset(offset int) error {
	if offset < 0 {
		offset = 0
	}
	return s.set(KeyScrollOffset, offset)
}

func (s *SessionService) set(key string, value any) error {
	if err := s.store.Set(key, value); err != nil {
		return fmt.Errorf("session %s: %w", key, err)
	}
	return nil
}

// lookup reads key as T. Values come back either as written (in-process
// stores) or as JSON bytes (persistent stores).
func lookup[T any](store driven.SessionStore, key string) (T, bool) {
	var zero T
	raw, ok := store.Get(key)
	if !ok || raw == nil {
		return zero, false
	}
	switch v := raw.(type) {
	case T:
		return v, true
	case []byte:
		return unmarshalAs[T](v)
	default:
		logger.Warn("Session key %s holds unexpected %T", key, raw)
		return zero, false
	}
}

func unmarshalAs[T any](data []byte) (T, bool) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false
	}
	return v, true
}

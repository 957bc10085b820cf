package memory

import (
	"sync"

	"github.com/custodia-labs/trawl/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore keeps the search view state for the lifetime of the process.
// Values are returned exactly as written.
type SessionStore struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{
		values: make(map[string]any),
	}
}

// Get returns the value stored under key.
func (s *SessionStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok
}

// Set stores value under key.
func (s *SessionStore) Set(key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Keys returns the number of stored keys.
func (s *SessionStore) Keys() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/custodia-labs/trawl/internal/core/ports/driven"
	"github.com/custodia-labs/trawl/internal/logger"
)

// sessionStore implements driven.SessionStore. Values are stored as JSON
// and returned from Get as raw []byte for the caller to decode.
type sessionStore struct {
	store *Store
}

var _ driven.SessionStore = (*sessionStore)(nil)

// Get returns the JSON stored under key.
func (s *sessionStore) Get(key string) (any, bool) {
	var (
		value    []byte
		encoding string
	)
	err := s.store.db.QueryRowContext(context.Background(),
		"SELECT value, encoding FROM session_state WHERE key = ?", key,
	).Scan(&value, &encoding)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.Warn("Reading session key %s: %v", key, err)
		}
		return nil, false
	}

	data, err := decodeValue(value, encoding)
	if err != nil {
		logger.Warn("Decoding session key %s: %v", key, err)
		return nil, false
	}
	return data, true
}

// Set stores value under key as JSON.
func (s *sessionStore) Set(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", key, err)
	}
	stored, encoding := encodeValue(data)

	_, err = s.store.db.ExecContext(context.Background(), `
		INSERT INTO session_state (key, value, encoding, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			encoding = excluded.encoding,
			updated_at = excluded.updated_at
	`, key, stored, encoding)
	if err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/trawl/internal/core/ports/driven"
)

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
	keep  int
}

var _ driven.HistoryStore = (*historyStore)(nil)

// Add records query as the most recent, bumping its use count if seen before.
func (h *historyStore) Add(ctx context.Context, query string) error {
	tx, err := h.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO query_history (query, last_used, uses)
		VALUES (?, (SELECT COALESCE(MAX(last_used), 0) + 1 FROM query_history), 1)
		ON CONFLICT(query) DO UPDATE SET
			last_used = excluded.last_used,
			uses = uses + 1
	`, query)
	if err != nil {
		return fmt.Errorf("saving query: %w", err)
	}

	if h.keep > 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM query_history WHERE query NOT IN (
				SELECT query FROM query_history ORDER BY last_used DESC LIMIT ?
			)
		`, h.keep)
		if err != nil {
			return fmt.Errorf("pruning history: %w", err)
		}
	}

	return tx.Commit()
}

// Recent returns up to limit queries starting with prefix (case-insensitive),
// most recent first.
func (h *historyStore) Recent(ctx context.Context, prefix string, limit int) ([]string, error) {
	rows, err := h.store.db.QueryContext(ctx, `
		SELECT query FROM query_history
		WHERE lower(query) LIKE ? ESCAPE '\'
		ORDER BY last_used DESC
		LIMIT ?
	`, likePrefix(prefix), limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var queries []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		queries = append(queries, q)
	}
	return queries, rows.Err()
}

// likePrefix builds a LIKE pattern matching strings that start with prefix.
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(strings.ToLower(prefix)) + "%"
}

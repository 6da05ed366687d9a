package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docdash/internal/core/domain"
	"github.com/custodia-labs/docdash/internal/core/ports/driven"
)

// historyStore implements driven.HistoryStore.
// Rows are keyed by position, zero being the most recent query.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

// Load returns the saved queries, most recent first.
func (h *historyStore) Load(ctx context.Context) ([]string, error) {
	rows, err := h.store.db.QueryContext(ctx,
		"SELECT query FROM search_history ORDER BY position ASC")
	if err != nil {
		return nil, fmt.Errorf("querying history: %w: %w", domain.ErrHistoryUnavailable, err)
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

// Save replaces the saved queries with queries.
func (h *historyStore) Save(ctx context.Context, queries []string) error {
	tx, err := h.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w: %w", domain.ErrHistoryUnavailable, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM search_history"); err != nil {
		return fmt.Errorf("clearing history: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO search_history (position, query, saved_at) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i, q := range queries {
		if _, err := stmt.ExecContext(ctx, i, q, now); err != nil {
			return fmt.Errorf("inserting %q: %w", q, err)
		}
	}

	return tx.Commit()
}

// Clear deletes every saved query.
func (h *historyStore) Clear(ctx context.Context) error {
	if _, err := h.store.db.ExecContext(ctx, "DELETE FROM search_history"); err != nil {
		return fmt.Errorf("clearing history: %w: %w", domain.ErrHistoryUnavailable, err)
	}
	return nil
}

package driven

import "context"

// HistoryStore persists the recent-query list between sessions.
type HistoryStore interface {
	// Load returns saved queries, most recent first.
	Load(ctx context.Context) ([]string, error)

	// Save replaces the saved queries with the given list.
	Save(ctx context.Context, queries []string) error

	// Clear removes all saved queries.
	Clear(ctx context.Context) error
}

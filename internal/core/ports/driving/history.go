package driving

import "context"

// HistoryService exposes the recent-query list.
type HistoryService interface {
	// History returns recent queries, most recent first.
	History() []string

	// ClearHistory forgets all recent queries.
	ClearHistory(ctx context.Context) error
}

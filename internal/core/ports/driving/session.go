package driving

import (
	"context"

	"github.com/custodia-labs/docdash/internal/core/domain"
)

// SearchSession is a live search session with debouncing, stale response
// dropping and query history.
//
// An event loop drives it: SetQuery arms a DebounceTimer, the loop calls
// TimerFired when the timer elapses, runs Execute and hands the response
// to Complete. Every method except Execute must be called from that loop.
type SearchSession interface {
	HistoryService

	// SetQuery records new query text and returns the timer to arm.
	// It returns false for empty text, which resets the session.
	SetQuery(text string) (domain.DebounceTimer, bool)

	// Refresh re-arms the timer for the current query.
	Refresh() (domain.DebounceTimer, bool)

	// TimerFired releases the query if token belongs to the pending timer.
	TimerFired(token uint64) (domain.QueryDispatch, bool)

	// Execute runs a dispatched query. Safe to call off the loop.
	Execute(ctx context.Context, d domain.QueryDispatch) domain.QueryResponse

	// Complete applies resp unless it is stale and reports whether it did.
	Complete(ctx context.Context, resp domain.QueryResponse) bool

	// RunNow settles query immediately, skipping the debounce.
	RunNow(ctx context.Context, query string) ([]domain.ScoredResult, error)

	// Options returns the options passed to each search.
	Options() domain.SearchOptions

	// SetOptions replaces the options passed to later searches.
	SetOptions(opts domain.SearchOptions)

	// State returns the session state.
	State() domain.SearchState

	// Query returns the current query text.
	Query() string

	// Results returns the results of the last applied query.
	Results() []domain.ScoredResult

	// Err returns the failure of the latest query while in the Error state.
	Err() error
}

package domain

import "time"

// SearchState is the phase of a live search session.
type SearchState int

const (
	// SearchStateIdle means nothing is scheduled or in flight.
	SearchStateIdle SearchState = iota

	// SearchStateDebouncing means a query is waiting for input to settle.
	SearchStateDebouncing

	// SearchStateQuerying means a query has been dispatched and not yet settled.
	SearchStateQuerying

	// SearchStateError means the latest dispatched query failed.
	SearchStateError
)

// String returns the string representation of the state.
func (s SearchState) String() string {
	switch s {
	case SearchStateIdle:
		return "idle"
	case SearchStateDebouncing:
		return "debouncing"
	case SearchStateQuerying:
		return "querying"
	case SearchStateError:
		return "error"
	default:
		return "unknown"
	}
}

// DebounceTimer asks the event loop that owns a session to report back
// with Token once Delay has elapsed.
type DebounceTimer struct {
	Token uint64
	Delay time.Duration
}

// QueryDispatch is a query released by its debounce timer, tagged with a
// strictly increasing sequence number.
type QueryDispatch struct {
	Seq   uint64
	Query string
}

// QueryResponse is the outcome of running a QueryDispatch.
type QueryResponse struct {
	Seq     uint64
	Query   string
	Results []ScoredResult
	Err     error
}

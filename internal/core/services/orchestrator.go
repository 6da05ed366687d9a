package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/custodia-labs/docdash/internal/core/domain"
	"github.com/custodia-labs/docdash/internal/core/ports/driven"
	"github.com/custodia-labs/docdash/internal/core/ports/driving"
	"github.com/custodia-labs/docdash/internal/logger"
)

// Ensure SearchOrchestrator implements the interface.
var _ driving.SearchSession = (*SearchOrchestrator)(nil)

// OrchestratorConfig configures a SearchOrchestrator.
type OrchestratorConfig struct {
	// Debounce is the quiet period before a query runs. Non-positive selects the default.
	Debounce time.Duration

	// HistorySize caps remembered queries. Non-positive selects the default.
	HistorySize int

	// Options are passed to every search.
	Options domain.SearchOptions
}

// OrchestratorConfigFromSettings derives an OrchestratorConfig from application
// settings. The configured weights become explicit options so that callers
// overriding one weight keep the other.
func OrchestratorConfigFromSettings(settings *domain.AppSettings) OrchestratorConfig {
	weights := settings.Ranking
	minScore := settings.Search.MinScore
	return OrchestratorConfig{
		Debounce:    settings.Session.Debounce,
		HistorySize: settings.Session.HistorySize,
		Options: domain.SearchOptions{
			Limit:    settings.Search.Limit,
			MinScore: &minScore,
			Weights:  &weights,
		},
	}
}

// SearchOrchestrator runs the live search session: it debounces query text,
// numbers dispatched queries and applies only the latest response.
//
// It owns no timers or goroutines. The event loop that owns it schedules
// each DebounceTimer, calls TimerFired when it elapses, runs Execute
// wherever it likes and hands the QueryResponse back to Complete. Every method
// except Execute must be called from that one loop.
type SearchOrchestrator struct {
	search   driving.SearchService
	store    driven.HistoryStore
	options  domain.SearchOptions
	debounce time.Duration

	state   domain.SearchState
	query   string
	results []domain.ScoredResult
	err     error
	history *History

	// pending is the token of the live debounce timer, zero when none is armed.
	pending   uint64
	lastToken uint64
	lastSeq   uint64
}

// NewSearchOrchestrator creates an idle orchestrator. When store is non-nil
// the remembered history is loaded from it; a failed load starts empty.
func NewSearchOrchestrator(
	ctx context.Context,
	search driving.SearchService,
	store driven.HistoryStore,
	config OrchestratorConfig,
) *SearchOrchestrator {
	if config.Debounce <= 0 {
		config.Debounce = domain.DefaultDebounce
	}
	o := &SearchOrchestrator{
		search:   search,
		store:    store,
		options:  config.Options,
		debounce: config.Debounce,
		state:    domain.SearchStateIdle,
		history:  NewHistory(config.HistorySize),
	}

	if store != nil {
		saved, err := store.Load(ctx)
		if err != nil {
			logger.Warn("Failed to load search history: %v", err)
		} else {
			o.history.Replace(saved)
		}
	}
	return o
}

// SetQuery records new query text. Empty text clears results and any error,
// disarms the pending timer and returns to Idle without a timer. Otherwise
// a fresh timer replaces the pending one and the session is Debouncing.
func (o *SearchOrchestrator) SetQuery(text string) (domain.DebounceTimer, bool) {
	o.query = strings.TrimSpace(text)
	if o.query == "" {
		o.pending = 0
		o.results = nil
		o.err = nil
		o.state = domain.SearchStateIdle
		return domain.DebounceTimer{}, false
	}

	o.lastToken++
	o.pending = o.lastToken
	o.err = nil
	o.state = domain.SearchStateDebouncing
	return domain.DebounceTimer{Token: o.pending, Delay: o.debounce}, true
}

// Refresh re-arms the timer for the current query text, if any. Used after
// the index changes underneath a settled query.
func (o *SearchOrchestrator) Refresh() (domain.DebounceTimer, bool) {
	if o.query == "" {
		return domain.DebounceTimer{}, false
	}
	return o.SetQuery(o.query)
}

// TimerFired releases the current query when token belongs to the pending
// timer. Superseded tokens are ignored.
func (o *SearchOrchestrator) TimerFired(token uint64) (domain.QueryDispatch, bool) {
	if token == 0 || token != o.pending {
		logger.Debug("Ignoring superseded debounce timer %d", token)
		return domain.QueryDispatch{}, false
	}
	o.pending = 0
	o.lastSeq++
	o.state = domain.SearchStateQuerying
	logger.Debug("Dispatching query %d: %q", o.lastSeq, o.query)
	return domain.QueryDispatch{Seq: o.lastSeq, Query: o.query}, true
}

// Execute runs the search for d. It touches no session state and may run
// off the event loop.
func (o *SearchOrchestrator) Execute(ctx context.Context, d domain.QueryDispatch) domain.QueryResponse {
	results, err := o.search.Search(ctx, d.Query, o.options)
	return domain.QueryResponse{Seq: d.Seq, Query: d.Query, Results: results, Err: err}
}

// Complete applies resp if it answers the latest dispatched query and the
// session is still waiting for it. Anything else is stale and dropped.
// It reports whether resp was applied. ctx bounds the history save.
func (o *SearchOrchestrator) Complete(ctx context.Context, resp domain.QueryResponse) bool {
	if resp.Seq != o.lastSeq || o.state != domain.SearchStateQuerying {
		logger.Debug("Dropping stale response %d (latest %d, state %s)", resp.Seq, o.lastSeq, o.state)
		return false
	}

	if resp.Err != nil {
		logger.Warn("Query %q failed: %v", resp.Query, resp.Err)
		o.results = nil
		o.err = fmt.Errorf("search %q: %w: %w", resp.Query, domain.ErrQueryFailed, resp.Err)
		o.state = domain.SearchStateError
		return true
	}

	o.results = resp.Results
	o.err = nil
	o.state = domain.SearchStateIdle
	o.history.Push(resp.Query)
	o.persistHistory(ctx)
	return true
}

// RunNow settles query immediately, skipping the debounce. One-shot callers
// such as the CLI use it so their queries follow the same history rules.
// An empty query returns no results.
func (o *SearchOrchestrator) RunNow(ctx context.Context, query string) ([]domain.ScoredResult, error) {
	timer, ok := o.SetQuery(query)
	if !ok {
		return []domain.ScoredResult{}, nil
	}
	d, _ := o.TimerFired(timer.Token)
	o.Complete(ctx, o.Execute(ctx, d))
	return o.Results(), o.Err()
}

// Options returns the options passed to each search.
func (o *SearchOrchestrator) Options() domain.SearchOptions {
	return o.options
}

// SetOptions replaces the options passed to later searches.
func (o *SearchOrchestrator) SetOptions(opts domain.SearchOptions) {
	o.options = opts
}

// State returns the session state.
func (o *SearchOrchestrator) State() domain.SearchState {
	return o.state
}

// Query returns the current query text.
func (o *SearchOrchestrator) Query() string {
	return o.query
}

// Results returns the results of the last applied query.
func (o *SearchOrchestrator) Results() []domain.ScoredResult {
	return slices.Clone(o.results)
}

// Err returns the failure recorded in the Error state, nil otherwise.
func (o *SearchOrchestrator) Err() error {
	return o.err
}

// History returns remembered queries, most recent first.
func (o *SearchOrchestrator) History() []string {
	return o.history.Entries()
}

// ClearHistory forgets every remembered query, including persisted ones.
func (o *SearchOrchestrator) ClearHistory(ctx context.Context) error {
	o.history.Clear()
	if o.store == nil {
		return nil
	}
	if err := o.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

func (o *SearchOrchestrator) persistHistory(ctx context.Context) {
	if o.store == nil {
		return
	}
	if err := ctx.Err(); err != nil {
		logger.Debug("Skipping history save: %v", err)
		return
	}
	if err := o.store.Save(ctx, o.history.Entries()); err != nil {
		logger.Warn("Failed to save search history: %v", err)
	}
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docdash/internal/core/domain"
)

func newTestOrchestrator(t *testing.T, search *mockSearchService) *SearchOrchestrator {
	t.Helper()
	return NewSearchOrchestrator(context.Background(), search, nil, OrchestratorConfig{})
}

// settle drives one query through the full debounce, dispatch and completion cycle.
func settle(t *testing.T, o *SearchOrchestrator, query string) bool {
	t.Helper()
	timer, ok := o.SetQuery(query)
	require.True(t, ok)
	d, ok := o.TimerFired(timer.Token)
	require.True(t, ok)
	return o.Complete(context.Background(), o.Execute(context.Background(), d))
}

func TestNewSearchOrchestrator_Defaults(t *testing.T) {
	o := newTestOrchestrator(t, &mockSearchService{})

	assert.Equal(t, domain.SearchStateIdle, o.State())
	assert.Empty(t, o.Query())
	assert.Empty(t, o.Results())
	assert.NoError(t, o.Err())
	assert.Empty(t, o.History())

	timer, ok := o.SetQuery("x")
	require.True(t, ok)
	assert.Equal(t, domain.DefaultDebounce, timer.Delay)
}

func TestSearchOrchestrator_SetQuery_StartsDebounce(t *testing.T) {
	o := NewSearchOrchestrator(context.Background(), &mockSearchService{}, nil,
		OrchestratorConfig{Debounce: 50 * time.Millisecond})

	timer, ok := o.SetQuery("  fox  ")
	require.True(t, ok)
	assert.Equal(t, 50*time.Millisecond, timer.Delay)
	assert.NotZero(t, timer.Token)
	assert.Equal(t, domain.SearchStateDebouncing, o.State())
	assert.Equal(t, "fox", o.Query())
}

func TestSearchOrchestrator_DebounceCoalescing(t *testing.T) {
	search := &mockSearchService{}
	o := newTestOrchestrator(t, search)

	var timers []domain.DebounceTimer
	for _, q := range []string{"f", "fo", "fox"} {
		timer, ok := o.SetQuery(q)
		require.True(t, ok)
		timers = append(timers, timer)
	}

	var dispatched []domain.QueryDispatch
	for _, timer := range timers {
		if d, ok := o.TimerFired(timer.Token); ok {
			dispatched = append(dispatched, d)
		}
	}

	require.Len(t, dispatched, 1)
	assert.Equal(t, "fox", dispatched[0].Query)
	assert.Equal(t, uint64(1), dispatched[0].Seq)
	assert.Equal(t, domain.SearchStateQuerying, o.State())

	// A timer cannot fire twice.
	_, ok := o.TimerFired(timers[2].Token)
	assert.False(t, ok)
}

func TestSearchOrchestrator_SequenceNumbersIncrease(t *testing.T) {
	o := newTestOrchestrator(t, &mockSearchService{})

	var last uint64
	for _, q := range []string{"a", "b", "c"} {
		timer, _ := o.SetQuery(q)
		d, ok := o.TimerFired(timer.Token)
		require.True(t, ok)
		assert.Greater(t, d.Seq, last)
		last = d.Seq
	}
}

func TestSearchOrchestrator_StaleDrop_OutOfOrder(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(t, &mockSearchService{})

	t1, _ := o.SetQuery("first")
	d1, ok := o.TimerFired(t1.Token)
	require.True(t, ok)
	t2, _ := o.SetQuery("second")
	d2, ok := o.TimerFired(t2.Token)
	require.True(t, ok)
	require.Equal(t, uint64(1), d1.Seq)
	require.Equal(t, uint64(2), d2.Seq)

	r1 := o.Execute(ctx, d1)
	r2 := o.Execute(ctx, d2)

	// Resolve 2 before 1.
	assert.True(t, o.Complete(ctx, r2))
	assert.False(t, o.Complete(ctx, r1))

	require.Len(t, o.Results(), 1)
	assert.Equal(t, "doc-second", o.Results()[0].DocumentID)
	assert.Equal(t, domain.SearchStateIdle, o.State())
	assert.Equal(t, []string{"second"}, o.History())
}

func TestSearchOrchestrator_StaleDrop_OlderArrivesFirst(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(t, &mockSearchService{})

	t1, _ := o.SetQuery("first")
	d1, _ := o.TimerFired(t1.Token)
	t2, _ := o.SetQuery("second")
	d2, _ := o.TimerFired(t2.Token)

	assert.False(t, o.Complete(ctx, o.Execute(ctx, d1)))
	assert.Empty(t, o.Results(), "stale results are never applied")
	assert.Equal(t, domain.SearchStateQuerying, o.State())

	assert.True(t, o.Complete(ctx, o.Execute(ctx, d2)))
	assert.Equal(t, "doc-second", o.Results()[0].DocumentID)
}

func TestSearchOrchestrator_ResponseDroppedAfterNewInput(t *testing.T) {
	ctx := context.Background()
	o := newTestOrchestrator(t, &mockSearchService{})

	t1, _ := o.SetQuery("first")
	d1, _ := o.TimerFired(t1.Token)
	_, ok := o.SetQuery("second")
	require.True(t, ok)

	assert.False(t, o.Complete(ctx, o.Execute(ctx, d1)))
	assert.Equal(t, domain.SearchStateDebouncing, o.State())
	assert.Empty(t, o.History())
}

func TestSearchOrchestrator_EmptyQueryClears(t *testing.T) {
	o := newTestOrchestrator(t, &mockSearchService{})
	require.True(t, settle(t, o, "fox"))
	require.NotEmpty(t, o.Results())

	pending, ok := o.SetQuery("fo")
	require.True(t, ok)

	_, ok = o.SetQuery("   ")
	assert.False(t, ok)
	assert.Equal(t, domain.SearchStateIdle, o.State())
	assert.Empty(t, o.Results())
	assert.NoError(t, o.Err())

	// The timer armed before clearing never dispatches.
	_, ok = o.TimerFired(pending.Token)
	assert.False(t, ok)
}

func TestSearchOrchestrator_EmptyQueryDuringQuerying(t *testing.T) {
	ctx := context.Background()
	search := &mockSearchService{}
	o := newTestOrchestrator(t, search)

	timer, _ := o.SetQuery("fox")
	d, _ := o.TimerFired(timer.Token)
	_, ok := o.SetQuery("")
	require.False(t, ok)

	assert.False(t, o.Complete(ctx, o.Execute(ctx, d)))
	assert.Empty(t, o.Results())
	assert.Equal(t, domain.SearchStateIdle, o.State())
}

func TestSearchOrchestrator_HistoryDedup(t *testing.T) {
	o := newTestOrchestrator(t, &mockSearchService{})
	for _, q := range []string{"a", "b", "a"} {
		require.True(t, settle(t, o, q))
	}
	assert.Equal(t, []string{"a", "b"}, o.History())
}

func TestSearchOrchestrator_HistoryCap(t *testing.T) {
	o := NewSearchOrchestrator(context.Background(), &mockSearchService{}, nil,
		OrchestratorConfig{HistorySize: 2})
	for _, q := range []string{"a", "b", "c"} {
		require.True(t, settle(t, o, q))
	}
	assert.Equal(t, []string{"c", "b"}, o.History())
}

func TestSearchOrchestrator_QueryFailure(t *testing.T) {
	cause := errors.New("backend down")
	search := &mockSearchService{
		SearchFunc: func(_ context.Context, _ string, _ domain.SearchOptions) ([]domain.ScoredResult, error) {
			return nil, cause
		},
	}
	o := newTestOrchestrator(t, search)

	assert.True(t, settle(t, o, "fox"))
	assert.Equal(t, domain.SearchStateError, o.State())
	require.Error(t, o.Err())
	assert.ErrorIs(t, o.Err(), domain.ErrQueryFailed)
	assert.ErrorIs(t, o.Err(), cause)
	assert.Empty(t, o.History(), "failed queries are not remembered")
	assert.Empty(t, o.Results())

	// The next change leaves the error state.
	_, ok := o.SetQuery("fox2")
	require.True(t, ok)
	assert.Equal(t, domain.SearchStateDebouncing, o.State())
	assert.NoError(t, o.Err())
}

func TestSearchOrchestrator_PassesOptions(t *testing.T) {
	var got domain.SearchOptions
	search := &mockSearchService{
		SearchFunc: func(_ context.Context, _ string, opts domain.SearchOptions) ([]domain.ScoredResult, error) {
			got = opts
			return nil, nil
		},
	}
	o := NewSearchOrchestrator(context.Background(), search, nil,
		OrchestratorConfig{Options: domain.SearchOptions{Limit: 7}})

	require.True(t, settle(t, o, "fox"))
	assert.Equal(t, 7, got.Limit)
}

func TestSearchOrchestrator_Refresh(t *testing.T) {
	search := &mockSearchService{}
	o := newTestOrchestrator(t, search)

	_, ok := o.Refresh()
	assert.False(t, ok, "nothing to refresh without a query")

	require.True(t, settle(t, o, "fox"))
	timer, ok := o.Refresh()
	require.True(t, ok)
	d, ok := o.TimerFired(timer.Token)
	require.True(t, ok)
	assert.Equal(t, "fox", d.Query)
	assert.True(t, o.Complete(context.Background(), o.Execute(context.Background(), d)))
	assert.Equal(t, []string{"fox", "fox"}, search.calls)
}

func TestSearchOrchestrator_WithRealEngine(t *testing.T) {
	ctx := context.Background()
	docs, search := newTestEngine(t)
	_, err := docs.Ingest(ctx, "the quick brown fox", domain.SourceKindPlainText, "fox.txt")
	require.NoError(t, err)

	o := NewSearchOrchestrator(ctx, search, nil, OrchestratorConfig{})
	require.True(t, settle(t, o, "fox"))

	require.Len(t, o.Results(), 1)
	assert.Equal(t, "the quick brown fox", o.Results()[0].Snippet)
}

func TestSearchOrchestrator_HistoryStore(t *testing.T) {
	ctx := context.Background()
	store := &mockHistoryStore{saved: []string{"old"}}
	o := NewSearchOrchestrator(ctx, &mockSearchService{}, store, OrchestratorConfig{})

	assert.Equal(t, []string{"old"}, o.History())

	require.True(t, settle(t, o, "new"))
	assert.Equal(t, []string{"new", "old"}, store.saved)

	require.NoError(t, o.ClearHistory(ctx))
	assert.Empty(t, o.History())
	assert.Empty(t, store.saved)
}

func TestSearchOrchestrator_HistoryStoreFailures(t *testing.T) {
	ctx := context.Background()
	store := &mockHistoryStore{
		loadErr:  domain.ErrHistoryUnavailable,
		saveErr:  domain.ErrHistoryUnavailable,
		clearErr: domain.ErrHistoryUnavailable,
	}
	o := NewSearchOrchestrator(ctx, &mockSearchService{}, store, OrchestratorConfig{})
	assert.Empty(t, o.History())

	// Save failures never fail the search.
	assert.True(t, settle(t, o, "fox"))
	assert.Equal(t, domain.SearchStateIdle, o.State())
	assert.Equal(t, []string{"fox"}, o.History())
	assert.Equal(t, 1, store.saves)

	err := o.ClearHistory(ctx)
	require.ErrorIs(t, err, domain.ErrHistoryUnavailable)
	assert.Empty(t, o.History())
}

type ctxKey struct{}

func TestSearchOrchestrator_HistorySaveUsesCallerContext(t *testing.T) {
	store := &mockHistoryStore{}
	o := NewSearchOrchestrator(context.Background(), &mockSearchService{}, store, OrchestratorConfig{})

	ctx := context.WithValue(context.Background(), ctxKey{}, "caller")
	_, err := o.RunNow(ctx, "fox")
	require.NoError(t, err)

	require.Equal(t, 1, store.saves)
	require.NotNil(t, store.saveCtx)
	assert.Equal(t, "caller", store.saveCtx.Value(ctxKey{}))
}

func TestSearchOrchestrator_CancelledCompleteSkipsSave(t *testing.T) {
	store := &mockHistoryStore{}
	o := NewSearchOrchestrator(context.Background(), &mockSearchService{}, store, OrchestratorConfig{})

	timer, ok := o.SetQuery("fox")
	require.True(t, ok)
	d, ok := o.TimerFired(timer.Token)
	require.True(t, ok)
	resp := o.Execute(context.Background(), d)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, o.Complete(ctx, resp))

	assert.Equal(t, domain.SearchStateIdle, o.State())
	assert.Equal(t, []string{"fox"}, o.History())
	assert.Zero(t, store.saves)
}

func TestSearchOrchestrator_RunNow(t *testing.T) {
	ctx := context.Background()
	search := &mockSearchService{}
	o := newTestOrchestrator(t, search)

	results, err := o.RunNow(ctx, "fox")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc-fox", results[0].DocumentID)
	assert.Equal(t, []string{"fox"}, o.History())
	assert.Equal(t, domain.SearchStateIdle, o.State())

	results, err = o.RunNow(ctx, "  ")
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, []string{"fox"}, search.calls)
}

func TestSearchOrchestrator_RunNow_Failure(t *testing.T) {
	search := &mockSearchService{
		SearchFunc: func(_ context.Context, _ string, _ domain.SearchOptions) ([]domain.ScoredResult, error) {
			return nil, domain.ErrDimensionMismatch
		},
	}
	o := newTestOrchestrator(t, search)

	_, err := o.RunNow(context.Background(), "fox")
	require.ErrorIs(t, err, domain.ErrQueryFailed)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
	assert.Empty(t, o.History())
}

func TestSearchOrchestrator_SetOptions(t *testing.T) {
	var got domain.SearchOptions
	search := &mockSearchService{
		SearchFunc: func(_ context.Context, _ string, opts domain.SearchOptions) ([]domain.ScoredResult, error) {
			got = opts
			return nil, nil
		},
	}
	o := newTestOrchestrator(t, search)
	assert.Equal(t, domain.SearchOptions{}, o.Options())

	minScore := 0.2
	opts := domain.SearchOptions{Limit: 3, MinScore: &minScore}
	o.SetOptions(opts)
	assert.Equal(t, opts, o.Options())

	_, err := o.RunNow(context.Background(), "fox")
	require.NoError(t, err)
	assert.Equal(t, opts, got)
}

func TestOrchestratorConfigFromSettings(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.Ranking = domain.RankingWeights{Vector: 0.7, Lexical: 0.3}
	settings.Search.Limit = 5
	settings.Session.HistorySize = 4

	cfg := OrchestratorConfigFromSettings(&settings)

	assert.Equal(t, domain.DefaultDebounce, cfg.Debounce)
	assert.Equal(t, 4, cfg.HistorySize)
	assert.Equal(t, 5, cfg.Options.Limit)
	require.NotNil(t, cfg.Options.MinScore)
	assert.Equal(t, settings.Search.MinScore, *cfg.Options.MinScore)
	require.NotNil(t, cfg.Options.Weights)
	assert.Equal(t, settings.Ranking, *cfg.Options.Weights)

	settings.Ranking.Vector = 9
	assert.Equal(t, 0.7, cfg.Options.Weights.Vector, "weights are copied")
}

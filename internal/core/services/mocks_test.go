package services

import (
	"context"
	"testing"

	"github.com/custodia-labs/docdash/internal/adapters/driven/embedding/charfreq"
	"github.com/custodia-labs/docdash/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docdash/internal/core/domain"
	"github.com/custodia-labs/docdash/internal/core/ports/driven"
	"github.com/custodia-labs/docdash/internal/normalisers"
)

// --- Mock implementations ---

// mockSearchService implements driving.SearchService for testing.
type mockSearchService struct {
	SearchFunc func(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.ScoredResult, error)
	calls      []string
}

func (m *mockSearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.ScoredResult, error) {
	m.calls = append(m.calls, query)
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, opts)
	}
	return []domain.ScoredResult{{DocumentID: "doc-" + query, Title: query}}, nil
}

// mockHistoryStore implements driven.HistoryStore for testing.
type mockHistoryStore struct {
	saved    []string
	loadErr  error
	saveErr  error
	clearErr error
	saves    int
	saveCtx  context.Context
}

func (m *mockHistoryStore) Load(_ context.Context) ([]string, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.saved, nil
}

func (m *mockHistoryStore) Save(ctx context.Context, queries []string) error {
	m.saves++
	m.saveCtx = ctx
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = queries
	return nil
}

func (m *mockHistoryStore) Clear(_ context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.saved = nil
	return nil
}

// mockNormaliser implements driven.Normaliser for testing.
type mockNormaliser struct {
	kind   domain.SourceKind
	result *driven.NormaliseResult
	err    error
}

func (m *mockNormaliser) SourceKind() domain.SourceKind { return m.kind }

func (m *mockNormaliser) Normalise(_ context.Context, _ string) (*driven.NormaliseResult, error) {
	return m.result, m.err
}

// fixedVectorizer implements driven.Vectorizer with a constant output.
type fixedVectorizer struct {
	vector []float64
}

func (f fixedVectorizer) Dimensions() int { return len(f.vector) }

func (f fixedVectorizer) Vectorize(_ string) []float64 {
	out := make([]float64, len(f.vector))
	copy(out, f.vector)
	return out
}

// --- Helpers ---

// newTestEngine wires the real index, vectorizer and normalisers.
func newTestEngine(t *testing.T) (*DocumentService, *SearchService) {
	t.Helper()
	index := memory.NewDocumentIndex(domain.DefaultDimensions)
	vectorizer := charfreq.New(domain.DefaultDimensions)
	docs := NewDocumentService(index, vectorizer, normalisers.Defaults())
	search := NewSearchService(index, vectorizer, DefaultSearchConfig())
	return docs, search
}

package mcp

import (
	"context"
	"sync"

	"github.com/custodia-labs/docdash/internal/core/domain"
	"github.com/custodia-labs/docdash/internal/core/services"
)

// mockSearchService is a mock implementation of driving.SearchService.
// It records the options of every call.
type mockSearchService struct {
	results []domain.ScoredResult
	err     error

	mu    sync.Mutex
	calls []domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) ([]domain.ScoredResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, opts)
	m.mu.Unlock()
	return m.results, m.err
}

func (m *mockSearchService) lastOptions() domain.SearchOptions {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return domain.SearchOptions{}
	}
	return m.calls[len(m.calls)-1]
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	docs []domain.DocumentEntry
	err  error

	ingested []string
}

func (m *mockDocumentService) Ingest(
	_ context.Context, content string, kind domain.SourceKind, sourceName string,
) (*domain.DocumentEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.ingested = append(m.ingested, content)
	title := sourceName
	if title == "" {
		title = "Untitled"
	}
	return &domain.DocumentEntry{
		ID:             "doc-new",
		Title:          title,
		NormalizedText: content,
		SourceKind:     kind,
		SourceName:     sourceName,
	}, nil
}

func (m *mockDocumentService) Replace(
	ctx context.Context, content string, kind domain.SourceKind, sourceName string,
) (*domain.DocumentEntry, error) {
	return m.Ingest(ctx, content, kind, sourceName)
}

func (m *mockDocumentService) Remove(_ context.Context, _ string) (int, error) {
	return 0, m.err
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.DocumentEntry, error) {
	return m.docs, m.err
}

func (m *mockDocumentService) Get(_ context.Context, id string) (*domain.DocumentEntry, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.docs {
		if m.docs[i].ID == id {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) Clear(_ context.Context) error {
	return m.err
}

// newSession wraps search in a real orchestrator with the given defaults.
func newSession(search *mockSearchService, opts domain.SearchOptions) *services.SearchOrchestrator {
	return services.NewSearchOrchestrator(context.Background(), search, nil,
		services.OrchestratorConfig{Options: opts})
}

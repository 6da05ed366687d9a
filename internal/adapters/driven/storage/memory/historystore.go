package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/docdash/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore is an in-memory implementation of driven.HistoryStore.
// It is used when no persistent store can be opened, and in tests.
type HistoryStore struct {
	mu      sync.RWMutex
	queries []string
}

// NewHistoryStore creates a new in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Load returns the saved queries.
func (s *HistoryStore) Load(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.queries), nil
}

// Save replaces the saved queries.
func (s *HistoryStore) Save(_ context.Context, queries []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = slices.Clone(queries)
	return nil
}

// Clear removes all saved queries.
func (s *HistoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = nil
	return nil
}

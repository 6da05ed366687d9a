package memory

import (
	"fmt"
	"slices"
	"sync"

	"github.com/custodia-labs/docdash/internal/core/domain"
	"github.com/custodia-labs/docdash/internal/core/ports/driven"
)

// Ensure DocumentIndex implements the interface.
var _ driven.DocumentIndex = (*DocumentIndex)(nil)

// DocumentIndex is an in-memory implementation of driven.DocumentIndex.
// Entries are kept in ingestion order for the lifetime of the process.
type DocumentIndex struct {
	mu         sync.RWMutex
	dimensions int
	entries    []domain.DocumentEntry
	byID       map[string]int
}

// NewDocumentIndex creates an empty index whose vectors all have the given length.
func NewDocumentIndex(dimensions int) *DocumentIndex {
	return &DocumentIndex{
		dimensions: dimensions,
		byID:       make(map[string]int),
	}
}

// Dimensions returns the vector length fixed at construction.
func (s *DocumentIndex) Dimensions() int {
	return s.dimensions
}

// Append stores a copy of the entry.
func (s *DocumentIndex) Append(entry domain.DocumentEntry) error {
	if err := s.check(entry); err != nil {
		return err
	}
	entry = ownedCopy(entry)

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[entry.ID]; exists {
		return fmt.Errorf("entry %s already indexed: %w", entry.ID, domain.ErrInvalidInput)
	}
	s.byID[entry.ID] = len(s.entries)
	s.entries = append(s.entries, entry)
	return nil
}

// ReplaceSource swaps the entries of entry.SourceName for a copy of entry
// under one lock. A rejected entry leaves the index untouched.
func (s *DocumentIndex) ReplaceSource(entry domain.DocumentEntry) (int, error) {
	if err := s.check(entry); err != nil {
		return 0, err
	}
	entry = ownedCopy(entry)

	s.mu.Lock()
	defer s.mu.Unlock()
	if i, exists := s.byID[entry.ID]; exists && s.entries[i].SourceName != entry.SourceName {
		return 0, fmt.Errorf("entry %s already indexed: %w", entry.ID, domain.ErrInvalidInput)
	}

	removed := s.removeSourceLocked(entry.SourceName)
	s.byID[entry.ID] = len(s.entries)
	s.entries = append(s.entries, entry)
	return removed, nil
}

func (s *DocumentIndex) check(entry domain.DocumentEntry) error {
	if len(entry.Vector) != s.dimensions {
		return fmt.Errorf("entry %s has %d dimensions, index has %d: %w",
			entry.ID, len(entry.Vector), s.dimensions, domain.ErrDimensionMismatch)
	}
	if entry.ID == "" {
		return fmt.Errorf("entry without id: %w", domain.ErrInvalidInput)
	}
	return nil
}

// ownedCopy detaches the slices of entry from the caller.
func ownedCopy(entry domain.DocumentEntry) domain.DocumentEntry {
	entry.Vector = slices.Clone(entry.Vector)
	entry.Headings = slices.Clone(entry.Headings)
	return entry
}

// All returns a snapshot of the entries in ingestion order.
// The returned entries share vector storage with the index and must be treated as read-only.
func (s *DocumentIndex) All() []domain.DocumentEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.entries)
}

// Get retrieves an entry by ID.
func (s *DocumentIndex) Get(id string) (*domain.DocumentEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	entry := s.entries[i]
	return &entry, nil
}

// Len returns the number of entries.
func (s *DocumentIndex) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// RemoveSource drops the entries ingested from sourceName.
func (s *DocumentIndex) RemoveSource(sourceName string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeSourceLocked(sourceName)
}

func (s *DocumentIndex) removeSourceLocked(sourceName string) int {
	before := len(s.entries)
	s.entries = slices.DeleteFunc(s.entries, func(e domain.DocumentEntry) bool {
		return e.SourceName == sourceName
	})
	removed := before - len(s.entries)
	if removed > 0 {
		s.byID = make(map[string]int, len(s.entries))
		for i, e := range s.entries {
			s.byID[e.ID] = i
		}
	}
	return removed
}

// Clear removes all entries. IDs handed out before are still never reused.
func (s *DocumentIndex) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.byID = make(map[string]int)
}

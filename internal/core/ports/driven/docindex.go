package driven

import (
	"github.com/custodia-labs/docdash/internal/core/domain"
)

// DocumentIndex owns the ingested entries of one session.
// It is held in memory and not persisted across restarts.
type DocumentIndex interface {
	// Dimensions returns the vector length fixed at construction.
	Dimensions() int

	// Append adds an entry. Returns domain.ErrDimensionMismatch if the
	// entry's vector length differs from Dimensions.
	Append(entry domain.DocumentEntry) error

	// All returns a snapshot of all entries in ingestion order.
	All() []domain.DocumentEntry

	// Get retrieves an entry by ID. Returns domain.ErrNotFound if absent.
	Get(id string) (*domain.DocumentEntry, error)

	// Len returns the number of entries.
	Len() int

	// RemoveSource drops every entry ingested from sourceName, keeping the
	// order of the rest. Returns the number removed.
	RemoveSource(sourceName string) int

	// ReplaceSource atomically drops the entries sharing entry.SourceName and
	// appends entry. Nothing changes when entry is rejected, for the same
	// reasons Append rejects it. Returns the number removed.
	ReplaceSource(entry domain.DocumentEntry) (int, error)

	// Clear removes all entries.
	Clear()
}

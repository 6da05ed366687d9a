package driving

import (
	"context"

	"github.com/custodia-labs/docdash/internal/core/domain"
)

// DocumentService ingests content into the session index.
type DocumentService interface {
	// Ingest normalises, vectorises and appends content as a new entry.
	// sourceName is used as the title when the content has none.
	Ingest(ctx context.Context, content string, kind domain.SourceKind, sourceName string) (*domain.DocumentEntry, error)

	// Replace drops the entries previously ingested from sourceName and
	// ingests content in their place. Used when a watched file changes.
	Replace(ctx context.Context, content string, kind domain.SourceKind, sourceName string) (*domain.DocumentEntry, error)

	// Remove drops the entries ingested from sourceName and reports how many there were.
	Remove(ctx context.Context, sourceName string) (int, error)

	// List returns all entries in ingestion order.
	List(ctx context.Context) ([]domain.DocumentEntry, error)

	// Get retrieves an entry by ID.
	Get(ctx context.Context, id string) (*domain.DocumentEntry, error)

	// Clear removes every entry from the index.
	Clear(ctx context.Context) error
}

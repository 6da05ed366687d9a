package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docdash/internal/core/domain"
	"github.com/custodia-labs/docdash/internal/core/ports/driven"
	"github.com/custodia-labs/docdash/internal/core/ports/driving"
	"github.com/custodia-labs/docdash/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// untitled is the title of a document with no title and no source name.
const untitled = "Untitled"

// DocumentService turns raw content into index entries.
type DocumentService struct {
	index       driven.DocumentIndex
	vectorizer  driven.Vectorizer
	normalisers map[domain.SourceKind]driven.Normaliser

	now   func() time.Time
	newID func() string
}

// NewDocumentService creates a new document service.
// Normalisers are keyed by their SourceKind; a later normaliser replaces an
// earlier one for the same kind.
func NewDocumentService(
	index driven.DocumentIndex,
	vectorizer driven.Vectorizer,
	normalisers []driven.Normaliser,
) *DocumentService {
	byKind := make(map[domain.SourceKind]driven.Normaliser, len(normalisers))
	for _, n := range normalisers {
		byKind[n.SourceKind()] = n
	}
	return &DocumentService{
		index:       index,
		vectorizer:  vectorizer,
		normalisers: byKind,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
}

// Ingest normalises content, vectorises the normalised text and appends the
// resulting entry to the index. Identical content ingested twice produces two
// entries.
func (s *DocumentService) Ingest(
	ctx context.Context, content string, kind domain.SourceKind, sourceName string,
) (*domain.DocumentEntry, error) {
	entry, err := s.buildEntry(ctx, content, kind, sourceName)
	if err != nil {
		return nil, err
	}
	if err := s.index.Append(entry); err != nil {
		return nil, fmt.Errorf("append %q: %w", sourceName, err)
	}
	logger.Debug("Ingested %q as %s (%d words)", entry.Title, kind, entry.WordCount())

	return &entry, nil
}

// Replace re-ingests content from sourceName in place of its earlier entries.
// The swap is all or nothing: when the new entry cannot be built or stored
// the earlier entries stay indexed.
func (s *DocumentService) Replace(
	ctx context.Context, content string, kind domain.SourceKind, sourceName string,
) (*domain.DocumentEntry, error) {
	entry, err := s.buildEntry(ctx, content, kind, sourceName)
	if err != nil {
		return nil, fmt.Errorf("replace: %w", err)
	}
	removed, err := s.index.ReplaceSource(entry)
	if err != nil {
		return nil, fmt.Errorf("replace %q: %w", sourceName, err)
	}
	logger.Debug("Replaced %d entries from %q", removed, sourceName)
	return &entry, nil
}

// buildEntry runs the normaliser and vectorizer for content without
// touching the index.
func (s *DocumentService) buildEntry(
	ctx context.Context, content string, kind domain.SourceKind, sourceName string,
) (domain.DocumentEntry, error) {
	if !kind.IsValid() {
		return domain.DocumentEntry{}, fmt.Errorf("ingest %q as %q: %w", sourceName, kind, domain.ErrUnsupportedType)
	}
	normaliser, ok := s.normalisers[kind]
	if !ok {
		return domain.DocumentEntry{}, fmt.Errorf("no normaliser for %q: %w", kind, domain.ErrUnsupportedType)
	}

	result, err := normaliser.Normalise(ctx, content)
	if err != nil {
		// Parse failures degrade to the plain text rule rather than losing the document.
		logger.Debug("Normalise %q as %s failed, indexing as plain text: %v", sourceName, kind, err)
		result = &driven.NormaliseResult{Text: strings.TrimSpace(content)}
	}

	return domain.DocumentEntry{
		ID:             s.newID(),
		Title:          entryTitle(result.Title, sourceName),
		NormalizedText: result.Text,
		RawText:        content,
		Headings:       result.Headings,
		Description:    result.Description,
		Vector:         s.vectorizer.Vectorize(result.Text),
		SourceKind:     kind,
		SourceName:     sourceName,
		CreatedAt:      s.now(),
	}, nil
}

// Remove drops every entry ingested from sourceName.
func (s *DocumentService) Remove(_ context.Context, sourceName string) (int, error) {
	if sourceName == "" {
		return 0, fmt.Errorf("remove without source name: %w", domain.ErrInvalidInput)
	}
	return s.index.RemoveSource(sourceName), nil
}

// List returns every indexed document in ingestion order.
func (s *DocumentService) List(_ context.Context) ([]domain.DocumentEntry, error) {
	return s.index.All(), nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(_ context.Context, id string) (*domain.DocumentEntry, error) {
	return s.index.Get(id)
}

// Clear removes every document from the index.
func (s *DocumentService) Clear(_ context.Context) error {
	s.index.Clear()
	return nil
}

// entryTitle picks the extracted title, else the source file name without
// its extension, else "Untitled". Dot files keep their full name.
func entryTitle(extracted, sourceName string) string {
	if t := strings.TrimSpace(extracted); t != "" {
		return t
	}
	base := filepath.Base(strings.TrimSpace(sourceName))
	if base == "." || base == string(filepath.Separator) {
		return untitled
	}
	if name := strings.TrimSuffix(base, filepath.Ext(base)); name != "" {
		return name
	}
	return base
}

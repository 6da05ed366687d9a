package driven

import (
	"context"

	"github.com/custodia-labs/docdash/internal/core/domain"
)

// Normaliser extracts indexable text from raw content of one source kind.
type Normaliser interface {
	// SourceKind returns the kind of content this normaliser handles.
	SourceKind() domain.SourceKind

	// Normalise extracts text and structure from raw content.
	// Implementations recover from malformed input rather than failing.
	Normalise(ctx context.Context, raw string) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Title and Description are empty when the source has none.
type NormaliseResult struct {
	// Text is the flattened content.
	Text string

	// Title is the explicit or derived title.
	Title string

	// Headings are heading texts in document order.
	Headings []string

	// Description is the meta description.
	Description string
}

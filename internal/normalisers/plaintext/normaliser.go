// Package plaintext provides the Normaliser for plain text content.
package plaintext

import (
	"context"
	"strings"

	"github.com/custodia-labs/docdash/internal/core/domain"
	"github.com/custodia-labs/docdash/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SourceKind returns the kind of content this normaliser handles.
func (n *Normaliser) SourceKind() domain.SourceKind {
	return domain.SourceKindPlainText
}

// Normalise returns the content verbatim apart from surrounding whitespace.
// Plain text carries no title, headings or description.
func (n *Normaliser) Normalise(_ context.Context, raw string) (*driven.NormaliseResult, error) {
	return Extract(raw), nil
}

// Extract applies the plain text rule. Other normalisers fall back to it
// when their own parsing fails.
func Extract(raw string) *driven.NormaliseResult {
	return &driven.NormaliseResult{
		Text: strings.TrimSpace(raw),
	}
}

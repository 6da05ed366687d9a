package driving

import (
	"context"

	"github.com/custodia-labs/docdash/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search ranks all indexed documents against query.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.ScoredResult, error)
}

package driving

import (
	"context"

	"github.com/custodia-labs/docdash/internal/core/domain"
)

// ResultActionService provides actions on search results for external actors.
// This is used by the TUI.
type ResultActionService interface {
	// CopyToClipboard copies the result's snippet to the system clipboard.
	CopyToClipboard(ctx context.Context, result *domain.ScoredResult) error

	// OpenDocument opens the result's source file in the default application.
	OpenDocument(ctx context.Context, result *domain.ScoredResult) error
}

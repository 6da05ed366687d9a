// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/docdash/internal/core/domain"
)

// DebounceElapsed is sent when a debounce timer armed for the live query
// runs out. Token identifies the timer; superseded tokens are ignored.
type DebounceElapsed struct {
	Token uint64
}

// SearchCompleted carries the outcome of a dispatched query back to the loop.
type SearchCompleted struct {
	Response domain.QueryResponse
}

// HistorySelected is sent when a remembered query is picked.
type HistorySelected struct {
	Query string
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewSearch is the live search view.
	ViewSearch ViewType = iota
	// ViewDocuments lists the indexed documents.
	ViewDocuments
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewSearch:
		return "search"
	case ViewDocuments:
		return "documents"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// DocumentsLoaded carries the indexed documents.
type DocumentsLoaded struct {
	Documents []domain.DocumentEntry
	Err       error
}

// FileChanged reports a watched file that was written or removed.
// Content is empty when Deleted is set.
type FileChanged struct {
	Path    string
	Kind    domain.SourceKind
	Content string
	Deleted bool
}

// IndexChanged signals the index was modified by a watched file.
type IndexChanged struct {
	Path string
	Err  error
}

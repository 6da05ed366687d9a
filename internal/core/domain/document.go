package domain

import (
	"strings"
	"time"
)

// SourceKind identifies how raw content should be interpreted.
type SourceKind string

const (
	// SourceKindPlainText is raw text taken verbatim.
	SourceKindPlainText SourceKind = "text"

	// SourceKindHTML is HTML-like markup that is parsed before indexing.
	SourceKindHTML SourceKind = "html"

	// SourceKindMarkdown is Markdown whose headings become entry headings.
	SourceKindMarkdown SourceKind = "markdown"
)

// IsValid returns true if the source kind is recognised.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceKindPlainText, SourceKindHTML, SourceKindMarkdown:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// ParseSourceKind converts a user-facing name into a SourceKind.
// Accepts "text", "plain", "plaintext", "txt", "html", "htm", "markdown" and "md".
func ParseSourceKind(s string) (SourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "plain", "plaintext", "txt":
		return SourceKindPlainText, nil
	case "html", "htm":
		return SourceKindHTML, nil
	case "markdown", "md":
		return SourceKindMarkdown, nil
	default:
		return "", ErrUnsupportedType
	}
}

// DocumentEntry is the unit of indexing.
// Entries are immutable once ingested; re-processing a source
// produces a new entry with a new ID.
type DocumentEntry struct {
	// ID is assigned at ingestion and never reused.
	ID string

	// Title is the explicit title, else the first h1, else the source name.
	Title string

	// NormalizedText is the flattened content used for vectors and snippets.
	NormalizedText string

	// RawText is the original content as supplied.
	RawText string

	// Headings lists heading texts in document order.
	Headings []string

	// Description is the meta description, if the source had one.
	Description string

	// Vector is the unit-length feature vector (zero vector for empty text).
	Vector []float64

	// SourceKind records how RawText was interpreted.
	SourceKind SourceKind

	// SourceName is the file name or label supplied by the caller.
	SourceName string

	// CreatedAt is the ingestion time.
	CreatedAt time.Time
}

// WordCount returns the number of whitespace-separated words in the normalised text.
func (e *DocumentEntry) WordCount() int {
	return len(strings.Fields(e.NormalizedText))
}

package domain

import "time"

// IndexSettings configures the document index.
type IndexSettings struct {
	// Dimensions is the fixed vector length for every entry.
	Dimensions int

	// Paths are files or directories ingested when a session starts.
	Paths []string

	// Watch re-ingests files under Paths when they change.
	Watch bool
}

// SnippetSettings configures snippet extraction.
type SnippetSettings struct {
	// WindowWords is the snippet length in words.
	WindowWords int
}

// SearchSettings configures result shaping.
type SearchSettings struct {
	// Limit caps the number of results. Zero means no limit.
	Limit int

	// MinScore drops weaker results. Zero disables the filter.
	MinScore float64
}

// SessionSettings configures the live search session.
type SessionSettings struct {
	// Debounce is how long input must be quiet before a query runs.
	Debounce time.Duration

	// HistorySize caps the number of remembered queries.
	HistorySize int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Index   IndexSettings
	Ranking RankingWeights
	Snippet SnippetSettings
	Search  SearchSettings
	Session SessionSettings
}

// Defaults used when nothing is configured.
const (
	DefaultDimensions    = 128
	DefaultSnippetWords  = 200
	DefaultDebounce      = 300 * time.Millisecond
	DefaultHistorySize   = 10
	DefaultSnippetMarker = "..."
)

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Index:   IndexSettings{Dimensions: DefaultDimensions},
		Ranking: DefaultRankingWeights(),
		Snippet: SnippetSettings{WindowWords: DefaultSnippetWords},
		Session: SessionSettings{
			Debounce:    DefaultDebounce,
			HistorySize: DefaultHistorySize,
		},
	}
}

// Validate reports ErrInvalidInput for settings no component can honour.
func (s AppSettings) Validate() error {
	if s.Index.Dimensions <= 0 {
		return ErrInvalidInput
	}
	if err := s.Ranking.Validate(); err != nil {
		return err
	}
	if s.Snippet.WindowWords <= 0 {
		return ErrInvalidInput
	}
	if s.Search.Limit < 0 || s.Session.Debounce < 0 || s.Session.HistorySize <= 0 {
		return ErrInvalidInput
	}
	return nil
}

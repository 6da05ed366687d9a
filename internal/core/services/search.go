package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/custodia-labs/docdash/internal/core/domain"
	"github.com/custodia-labs/docdash/internal/core/ports/driven"
	"github.com/custodia-labs/docdash/internal/core/ports/driving"
	"github.com/custodia-labs/docdash/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchConfig holds the engine-wide ranking defaults.
type SearchConfig struct {
	// Weights blend vector and lexical scores. Per-call options may override them.
	Weights domain.RankingWeights

	// SnippetWords is the snippet window length. Non-positive selects the default.
	SnippetWords int

	// Limit caps results when the call does not set its own. Zero means no limit.
	Limit int

	// MinScore applies when the call does not set its own. Zero disables it.
	MinScore float64
}

// DefaultSearchConfig returns vector-only ranking with 200 word snippets.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		Weights:      domain.DefaultRankingWeights(),
		SnippetWords: domain.DefaultSnippetWords,
	}
}

// SearchConfigFromSettings derives a SearchConfig from application settings.
func SearchConfigFromSettings(settings *domain.AppSettings) SearchConfig {
	return SearchConfig{
		Weights:      settings.Ranking,
		SnippetWords: settings.Snippet.WindowWords,
		Limit:        settings.Search.Limit,
		MinScore:     settings.Search.MinScore,
	}
}

// SearchService ranks every indexed document against a query.
// Results are recomputed on every call; nothing is cached.
type SearchService struct {
	index      driven.DocumentIndex
	vectorizer driven.Vectorizer
	config     SearchConfig
}

// NewSearchService creates a new search service.
func NewSearchService(
	index driven.DocumentIndex, vectorizer driven.Vectorizer, config SearchConfig,
) *SearchService {
	if config.SnippetWords <= 0 {
		config.SnippetWords = domain.DefaultSnippetWords
	}
	return &SearchService{
		index:      index,
		vectorizer: vectorizer,
		config:     config,
	}
}

// Search scores every document, sorts by final score descending and applies
// the score threshold and limit. Documents with equal final scores keep their
// ingestion order. An empty query or an empty index yields no results.
func (s *SearchService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.ScoredResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", query)
	defer logger.Timed("search")()

	if strings.TrimSpace(query) == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.ScoredResult{}, nil
	}

	weights := s.config.Weights
	if opts.Weights != nil {
		weights = *opts.Weights
	}
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("ranking weights: %w", err)
	}
	limit := opts.Limit
	if limit == 0 {
		limit = s.config.Limit
	}
	if limit < 0 {
		return nil, fmt.Errorf("limit %d: %w", limit, domain.ErrInvalidInput)
	}
	minScore := s.config.MinScore
	if opts.MinScore != nil {
		minScore = *opts.MinScore
	}

	entries := s.index.All()
	if len(entries) == 0 {
		logger.Debug("Index is empty, returning no results")
		return []domain.ScoredResult{}, nil
	}

	queryVector := s.vectorizer.Vectorize(query)
	if len(queryVector) != s.index.Dimensions() {
		return nil, fmt.Errorf("query vector has %d dimensions, index has %d: %w",
			len(queryVector), s.index.Dimensions(), domain.ErrDimensionMismatch)
	}
	queryTerms := uniqueTerms(query)
	logger.Debug("Scoring %d documents with weights vector=%g lexical=%g",
		len(entries), weights.Vector, weights.Lexical)

	results := make([]domain.ScoredResult, 0, len(entries))
	for i := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, s.score(&entries[i], query, queryVector, queryTerms, weights))
	}

	slices.SortStableFunc(results, func(a, b domain.ScoredResult) int {
		switch {
		case a.FinalScore > b.FinalScore:
			return -1
		case a.FinalScore < b.FinalScore:
			return 1
		default:
			return 0
		}
	})

	if minScore != 0 {
		results = slices.DeleteFunc(results, func(r domain.ScoredResult) bool {
			return r.FinalScore < minScore
		})
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	logger.Info("Final results: %d", len(results))
	return results, nil
}

func (s *SearchService) score(
	entry *domain.DocumentEntry,
	query string,
	queryVector []float64,
	queryTerms []string,
	weights domain.RankingWeights,
) domain.ScoredResult {
	vectorScore := CosineSimilarity(queryVector, entry.Vector)
	lexical := lexicalScore(queryTerms, termSet(entry.NormalizedText))

	return domain.ScoredResult{
		DocumentID:   entry.ID,
		Title:        entry.Title,
		Snippet:      BestSnippet(entry.NormalizedText, query, s.config.SnippetWords),
		LexicalScore: lexical,
		VectorScore:  vectorScore,
		FinalScore:   weights.Combine(vectorScore, lexical),
		Headings:     slices.Clone(entry.Headings),
		Metadata: domain.ResultMetadata{
			WordCount:  entry.WordCount(),
			SourceKind: entry.SourceKind,
			CreatedAt:  entry.CreatedAt,
		},
	}
}

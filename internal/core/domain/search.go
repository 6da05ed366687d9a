package domain

import (
	"math"
	"time"
)

// RankingWeights controls how the final score blends the two signals:
// FinalScore = Vector*VectorScore + Lexical*LexicalScore.
type RankingWeights struct {
	// Vector weights the cosine similarity signal.
	Vector float64

	// Lexical weights the literal term overlap signal.
	Lexical float64
}

// DefaultRankingWeights ranks by vector similarity alone.
func DefaultRankingWeights() RankingWeights {
	return RankingWeights{Vector: 1, Lexical: 0}
}

// Validate checks that both weights are finite numbers.
func (w RankingWeights) Validate() error {
	if math.IsNaN(w.Vector) || math.IsInf(w.Vector, 0) ||
		math.IsNaN(w.Lexical) || math.IsInf(w.Lexical, 0) {
		return ErrInvalidInput
	}
	return nil
}

// Combine returns the blended final score.
func (w RankingWeights) Combine(vectorScore, lexicalScore float64) float64 {
	return w.Vector*vectorScore + w.Lexical*lexicalScore
}

// SearchOptions configures a search query.
type SearchOptions struct {
	// Limit is the maximum number of results. Zero means no limit.
	Limit int

	// MinScore drops results whose final score is below it. Nil uses the
	// configured threshold; zero disables the filter for this call.
	MinScore *float64

	// Weights overrides the engine's configured weights for this call.
	Weights *RankingWeights
}

// ResultMetadata carries display metadata for a result.
type ResultMetadata struct {
	// WordCount is the number of words in the normalised text.
	WordCount int

	// SourceKind is the kind the document was ingested as.
	SourceKind SourceKind

	// CreatedAt is when the document was ingested.
	CreatedAt time.Time
}

// ScoredResult is a single ranked hit. It only lives for one query's output.
type ScoredResult struct {
	// DocumentID references the DocumentEntry that matched.
	DocumentID string

	// Title is the document title.
	Title string

	// Snippet is the best matching plain-text excerpt.
	Snippet string

	// LexicalScore is the fraction of query terms present, in [0,1].
	LexicalScore float64

	// VectorScore is the cosine similarity between query and document vectors.
	VectorScore float64

	// FinalScore is the weighted blend used for ordering.
	FinalScore float64

	// Headings are the document headings, shown as tags.
	Headings []string

	// Metadata holds display metadata.
	Metadata ResultMetadata
}

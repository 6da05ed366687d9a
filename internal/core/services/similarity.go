package services

import (
	"fmt"
	"math"

	"github.com/custodia-labs/docdash/internal/core/domain"
)

// CosineSimilarity returns the cosine of the angle between a and b, in [-1, 1].
// A zero-magnitude vector has similarity 0 with everything.
//
// The result is exactly symmetric: every product is commutative and the sums
// are accumulated in the same index order whichever argument comes first.
// Vectors of different lengths are a programming error and panic with
// domain.ErrDimensionMismatch.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		panic(fmt.Errorf("cosine similarity of %d and %d dimensions: %w",
			len(a), len(b), domain.ErrDimensionMismatch))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Rounding can push identical vectors a hair past 1.
	return math.Max(-1, math.Min(1, sim))
}

// Package charfreq provides a Vectorizer built from character frequencies.
//
// It is a small, fully reproducible feature extractor: every code point
// below the configured dimensionality is a histogram bucket, and the
// histogram is scaled to unit length. It needs no model or network and
// can be replaced by any fixed-length embedding.
package charfreq

import (
	"math"

	"github.com/custodia-labs/docdash/internal/core/ports/driven"
)

// Ensure Vectorizer implements the interface.
var _ driven.Vectorizer = (*Vectorizer)(nil)

// DefaultDimensions covers the ASCII range.
const DefaultDimensions = 128

// Vectorizer maps text to a unit-length character histogram.
type Vectorizer struct {
	dimensions int
}

// New creates a vectorizer with the given dimensionality.
// Non-positive values select DefaultDimensions.
func New(dimensions int) *Vectorizer {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &Vectorizer{dimensions: dimensions}
}

// Dimensions returns the vector length.
func (v *Vectorizer) Dimensions() int {
	return v.dimensions
}

// Vectorize counts every code point below Dimensions and normalises the
// counts to unit Euclidean length. Other code points are ignored. Text with
// no counted code points yields the zero vector, left unnormalised.
func (v *Vectorizer) Vectorize(text string) []float64 {
	vec := make([]float64, v.dimensions)
	for _, r := range text {
		if r >= 0 && int(r) < v.dimensions {
			vec[r]++
		}
	}

	var sum float64
	for _, x := range vec {
		sum += x * x
	}
	if sum == 0 {
		return vec
	}

	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

package services

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docdash/internal/core/domain"
)

func randomVector(r *rand.Rand, dims int) []float64 {
	v := make([]float64, dims)
	for i := range v {
		v[i] = r.Float64()*2 - 1
	}
	return v
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"scaled", []float64{1, 2, 3}, []float64{2, 4, 6}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 1}, []float64{-1, -1}, -1},
		{"zero left", []float64{0, 0}, []float64{1, 1}, 0},
		{"zero right", []float64{1, 1}, []float64{0, 0}, 0},
		{"both zero", []float64{0, 0}, []float64{0, 0}, 0},
		{"empty", []float64{}, []float64{}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-12)
		})
	}
}

func TestCosineSimilarity_Symmetric(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for range 200 {
		a := randomVector(r, 128)
		b := randomVector(r, 128)
		assert.Equal(t, CosineSimilarity(a, b), CosineSimilarity(b, a))
	}
}

func TestCosineSimilarity_SelfSimilarity(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for range 100 {
		v := randomVector(r, 64)
		assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
	}
}

func TestCosineSimilarity_Bounded(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for range 200 {
		sim := CosineSimilarity(randomVector(r, 16), randomVector(r, 16))
		assert.GreaterOrEqual(t, sim, -1.0)
		assert.LessOrEqual(t, sim, 1.0)
	}
}

func TestCosineSimilarity_DimensionMismatchPanics(t *testing.T) {
	assert.PanicsWithError(t, "cosine similarity of 2 and 3 dimensions: "+domain.ErrDimensionMismatch.Error(), func() {
		CosineSimilarity([]float64{1, 2}, []float64{1, 2, 3})
	})
}

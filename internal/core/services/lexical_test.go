package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLexicalScore(t *testing.T) {
	tests := []struct {
		name  string
		query string
		text  string
		want  float64
	}{
		{"all terms", "quick fox", "the quick brown fox", 1},
		{"half the terms", "quick cat", "the quick brown fox", 0.5},
		{"no terms", "cat", "the quick brown fox", 0},
		{"case insensitive", "FOX", "The Quick Brown Fox", 1},
		{"punctuation trimmed", "fox!", "a fox, a hound.", 1},
		{"duplicate query terms count once", "fox fox cat", "fox", 0.5},
		{"whole tokens only", "fox", "foxes", 0},
		{"empty query", "", "anything", 0},
		{"punctuation only query", "?!", "anything", 0},
		{"empty text", "fox", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, LexicalScore(tt.query, tt.text), 1e-12)
		})
	}
}

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"hello", "world", "it's"}, terms("  Hello, WORLD! (it's) -- "))
	assert.Empty(t, terms("   "))
}

func TestUniqueTerms_KeepsFirstSeenOrder(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, uniqueTerms("b a B c a"))
}

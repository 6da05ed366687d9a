package services

import (
	"strings"
	"unicode"
)

// terms splits text on whitespace, lowercases each token and trims
// surrounding punctuation. Tokens that are pure punctuation are dropped.
func terms(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := fields[:0]
	for _, f := range fields {
		f = strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// uniqueTerms returns the distinct terms of text in first-seen order.
func uniqueTerms(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range terms(text) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// termSet returns the set of terms in text.
func termSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range terms(text) {
		set[t] = true
	}
	return set
}

// LexicalScore returns the fraction of distinct query terms that occur as
// terms of text, in [0, 1]. A query without terms scores 0.
func LexicalScore(query, text string) float64 {
	return lexicalScore(uniqueTerms(query), termSet(text))
}

func lexicalScore(queryTerms []string, docTerms map[string]bool) float64 {
	if len(queryTerms) == 0 {
		return 0
	}
	var hits int
	for _, t := range queryTerms {
		if docTerms[t] {
			hits++
		}
	}
	return float64(hits) / float64(len(queryTerms))
}

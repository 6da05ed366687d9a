package services

import (
	"strings"

	"github.com/custodia-labs/docdash/internal/core/domain"
)

// BestSnippet returns the window of windowWords consecutive words from text
// that contains the most query terms. Words are split on whitespace and
// compared to query words case-insensitively as exact tokens. The first
// window reaching the maximum wins. Text no longer than the window is
// returned whole; otherwise a truncation marker is appended when the window
// stops before the end of text. A non-positive windowWords selects the default.
//
// The snippet is plain text. Highlighting is left to the display layer.
func BestSnippet(text, query string, windowWords int) string {
	if windowWords <= 0 {
		windowWords = domain.DefaultSnippetWords
	}

	words := strings.Fields(text)
	if len(words) <= windowWords {
		return strings.TrimSpace(text)
	}

	want := make(map[string]bool)
	for _, q := range strings.Fields(strings.ToLower(query)) {
		want[q] = true
	}
	matches := make([]bool, len(words))
	for i, w := range words {
		matches[i] = want[strings.ToLower(w)]
	}

	// Score the first window, then slide one word at a time.
	score := 0
	for i := 0; i < windowWords; i++ {
		if matches[i] {
			score++
		}
	}
	bestScore, bestStart := score, 0
	for start := 1; start+windowWords <= len(words); start++ {
		if matches[start-1] {
			score--
		}
		if matches[start+windowWords-1] {
			score++
		}
		if score > bestScore {
			bestScore, bestStart = score, start
		}
	}

	end := bestStart + windowWords
	snippet := strings.Join(words[bestStart:end], " ")
	if end < len(words) {
		snippet += domain.DefaultSnippetMarker
	}
	return snippet
}

// HighlightTerms applies mark to every word of snippet that matches a query
// term under the same rule BestSnippet uses. Whitespace between words is
// normalised to single spaces. The snippet itself never carries markup; the
// display layer supplies mark.
func HighlightTerms(snippet, query string, mark func(string) string) string {
	if mark == nil {
		return snippet
	}
	want := make(map[string]bool)
	for _, q := range strings.Fields(strings.ToLower(query)) {
		want[q] = true
	}
	if len(want) == 0 {
		return snippet
	}

	words := strings.Fields(snippet)
	for i, w := range words {
		if want[strings.ToLower(w)] {
			words[i] = mark(w)
		}
	}
	return strings.Join(words, " ")
}

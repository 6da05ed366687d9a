package services

import (
	"slices"

	"github.com/custodia-labs/docdash/internal/core/domain"
)

// History is a bounded most-recent-first list of distinct queries.
// It is not safe for concurrent use.
type History struct {
	entries  []string
	capacity int
}

// NewHistory creates an empty history holding at most capacity queries.
// A non-positive capacity selects the default.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = domain.DefaultHistorySize
	}
	return &History{capacity: capacity}
}

// Push moves query to the front, removing any earlier occurrence of the same
// text and dropping the oldest entry once the capacity is exceeded.
// Empty queries are ignored.
func (h *History) Push(query string) {
	if query == "" {
		return
	}
	h.entries = slices.DeleteFunc(h.entries, func(e string) bool { return e == query })
	h.entries = slices.Insert(h.entries, 0, query)
	if len(h.entries) > h.capacity {
		h.entries = h.entries[:h.capacity]
	}
}

// Replace swaps the contents for entries, applying the same dedup and cap
// as a sequence of pushes from oldest to newest.
func (h *History) Replace(entries []string) {
	h.entries = nil
	for i := len(entries) - 1; i >= 0; i-- {
		h.Push(entries[i])
	}
}

// Entries returns a copy, most recent first.
func (h *History) Entries() []string {
	return slices.Clone(h.entries)
}

// Len returns the number of remembered queries.
func (h *History) Len() int {
	return len(h.entries)
}

// Capacity returns the maximum number of remembered queries.
func (h *History) Capacity() int {
	return h.capacity
}

// Clear forgets every query.
func (h *History) Clear() {
	h.entries = nil
}

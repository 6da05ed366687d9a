// Package html provides a Normaliser implementation for HTML documents.
// It parses markup with golang.org/x/net/html, drops scripts and styles,
// and extracts the title, headings, meta description and readable body text.
package html

// Package normalisers provides implementations of the Normaliser interface
// for each supported source kind. Each normaliser knows how to extract text,
// title and headings from one kind of raw content.
//
// Defaults returns the set registered with the DocumentService at startup.
package normalisers

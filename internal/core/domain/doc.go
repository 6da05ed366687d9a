// Package domain defines the core entities for docdash.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentEntry: An ingested, vectorised document
//   - ScoredResult: A single ranked hit for one query
//   - SearchState: The phase of the live search session
//   - AppSettings: Tunables for indexing, ranking and the session
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown source kind or normaliser type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrDimensionMismatch indicates vectors of different lengths met.
	// This is an internal invariant violation, never a user error.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrParseFailure indicates markup could not be parsed.
	// Ingestion recovers from it by falling back to plain text.
	ErrParseFailure = errors.New("parse failure")

	// ErrQueryFailed indicates the scoring step of a query failed.
	ErrQueryFailed = errors.New("query execution failed")

	// ErrHistoryUnavailable indicates the history store is not configured.
	ErrHistoryUnavailable = errors.New("history store unavailable")
)

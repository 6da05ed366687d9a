// Package mcp provides an MCP (Model Context Protocol) server adapter for docdash.
// It lets AI assistants search, feed and inspect the session index.
package mcp

import "errors"

// ErrMissingSearchSession is returned when the search session is not provided.
var ErrMissingSearchSession = errors.New("mcp: search session is required")

// ErrMissingDocumentService is returned by tools that need the document service.
var ErrMissingDocumentService = errors.New("mcp: document service is required")

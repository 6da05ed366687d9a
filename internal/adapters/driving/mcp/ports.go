package mcp

import (
	"github.com/custodia-labs/docdash/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
type Ports struct {
	// Session runs queries and keeps the query history.
	Session driving.SearchSession

	// Document ingests and lists index entries. Optional.
	Document driving.DocumentService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Session == nil {
		return ErrMissingSearchSession
	}
	return nil
}

// Package tui provides the interactive live-search dashboard for docdash.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"fmt"

	"github.com/custodia-labs/docdash/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
type Ports struct {
	// Session owns the debounced query state.
	Session driving.SearchSession

	// Document lists and updates the index.
	Document driving.DocumentService

	// ResultAction provides actions on search results. Optional.
	ResultAction driving.ResultActionService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	session driving.SearchSession,
	document driving.DocumentService,
	resultAction driving.ResultActionService,
) *Ports {
	return &Ports{
		Session:      session,
		Document:     document,
		ResultAction: resultAction,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Session == nil {
		return fmt.Errorf("%w: %w", ErrInvalidPorts, ErrMissingSearchSession)
	}
	if p.Document == nil {
		return fmt.Errorf("%w: %w", ErrInvalidPorts, ErrMissingDocumentService)
	}
	return nil
}

// Package tui provides an interactive terminal user interface for trawl.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/trawl/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search runs streaming searches.
	Search driving.SearchService

	// Results sorts, counts and filters the accumulated collection.
	Results driving.ResultService

	// Session mirrors the search view state so it survives navigation.
	Session driving.SessionService

	// ResultAction downloads, copies or opens a result.
	ResultAction driving.ResultActionService

	// History offers previous queries as suggestions.
	History driving.HistoryService

	// Settings manages application settings.
	Settings driving.SettingsService
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(
	search driving.SearchService,
	results driving.ResultService,
	session driving.SessionService,
) *Ports {
	return &Ports{
		Search:  search,
		Results: results,
		Session: session,
	}
}

// Validate ensures all required ports are set.
// Returns an error if any port is nil.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Results == nil {
		return ErrMissingResultService
	}
	if p.Session == nil {
		return ErrMissingSessionService
	}
	return nil
}

package mcp

import (
	"github.com/custodia-labs/trawl/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search runs one-shot searches to completion.
	Search driving.SearchCollector

	// Results filters and counts collected records.
	Results driving.ResultService

	// Session exposes the last search made in the TUI.
	Session driving.SessionService

	// Actions sends magnets to the downloader.
	Actions driving.ResultActionService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Results == nil {
		return ErrMissingResultService
	}
	// Session and Actions are optional
	return nil
}

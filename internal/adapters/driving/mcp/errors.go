// Package mcp provides an MCP (Model Context Protocol) server adapter for trawl.
// It lets AI assistants run torrent searches and read the last search session.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search collector is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingResultService is returned when the result service is not provided.
var ErrMissingResultService = errors.New("mcp: result service is required")

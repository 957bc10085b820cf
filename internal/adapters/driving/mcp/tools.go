package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/trawl/internal/core/domain"
	"github.com/custodia-labs/trawl/internal/logger"
)

// defaultLimit caps the results returned when the caller gives no limit.
const defaultLimit = 25

// SearchInput is the input schema for the search_torrents tool.
type SearchInput struct {
	Query  string `json:"query" jsonschema:"the torrent search query"`
	Sort   string `json:"sort,omitempty" jsonschema:"sort key: seeds, size, date or name (default seeds)"`
	Dir    string `json:"dir,omitempty" jsonschema:"sort direction: asc or desc (default depends on key)"`
	Source string `json:"source,omitempty" jsonschema:"only return results from this tracker"`
	Filter string `json:"filter,omitempty" jsonschema:"fuzzy title filter"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 25)"`
}

// SearchOutput is the output schema for the search_torrents tool.
type SearchOutput struct {
	Query   string              `json:"query"`
	Sort    string              `json:"sort"`
	Total   int                 `json:"total"`
	Count   int                 `json:"count"`
	Partial bool                `json:"partial,omitempty"`
	Error   string              `json:"error,omitempty"`
	Sources []domain.FacetEntry `json:"sources"`
	Results []TorrentOutput     `json:"results"`
}

// TorrentOutput represents a single search result.
type TorrentOutput struct {
	Title     string `json:"title"`
	Seeders   *int64 `json:"seeders,omitempty"`
	Size      *int64 `json:"size,omitempty"`
	Published string `json:"published,omitempty"`
	Tracker   string `json:"tracker,omitempty"`
	Details   string `json:"details,omitempty"`
	Magnet    string `json:"magnet,omitempty"`
}

// AddInput is the input schema for the add_torrent tool.
type AddInput struct {
	Magnet string `json:"magnet" jsonschema:"the magnet link to download"`
}

// AddOutput is the output schema for the add_torrent tool.
type AddOutput struct {
	Added bool `json:"added"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_torrents",
		Description: "Search trackers for torrents and return the results sorted and grouped by source",
	}, s.handleSearch)

	if s.ports.Actions != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "add_torrent",
			Description: "Send a magnet link to the backend's downloader",
		}, s.handleAdd)
	}
}

// handleSearch handles the search_torrents tool invocation. A stream that
// fails after delivering records still returns them, flagged as partial.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	spec, err := domain.ParseSortSpec(input.Sort, input.Dir)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	source := strings.TrimSpace(input.Source)
	if source == "" {
		source = domain.AllSource
	}

	collection, err := s.ports.Search.Collect(ctx, input.Query, spec, nil)
	if err != nil && (len(collection) == 0 || errors.Is(err, domain.ErrEmptyQuery)) {
		return nil, SearchOutput{}, fmt.Errorf("search failed: %w", err)
	}

	visible := s.ports.Results.Filter(collection, input.Filter, source)
	if len(visible) > limit {
		visible = visible[:limit]
	}

	output := SearchOutput{
		Query:   strings.TrimSpace(input.Query),
		Sort:    spec.String(),
		Total:   len(collection),
		Count:   len(visible),
		Sources: s.ports.Results.Facets(collection, false),
		Results: make([]TorrentOutput, len(visible)),
	}
	if err != nil {
		logger.Warn("search_torrents %q returned partial results: %v", input.Query, err)
		output.Partial = true
		output.Error = err.Error()
	}
	for i := range visible {
		output.Results[i] = toTorrentOutput(&visible[i])
	}

	return nil, output, nil
}

// handleAdd handles the add_torrent tool invocation.
func (s *Server) handleAdd(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddInput,
) (*mcp.CallToolResult, AddOutput, error) {
	magnet := strings.TrimSpace(input.Magnet)
	if magnet == "" {
		return nil, AddOutput{}, fmt.Errorf("%w: magnet is required", domain.ErrInvalidInput)
	}
	record := &domain.ResultRecord{Title: magnet, MagnetURI: magnet}
	if err := s.ports.Actions.Download(ctx, record); err != nil {
		return nil, AddOutput{}, fmt.Errorf("adding torrent: %w", err)
	}
	return nil, AddOutput{Added: true}, nil
}

func toTorrentOutput(r *domain.ResultRecord) TorrentOutput {
	return TorrentOutput{
		Title:     r.Title,
		Seeders:   r.Seeders,
		Size:      r.Size,
		Published: r.PublishDate,
		Tracker:   r.Tracker,
		Details:   r.Details,
		Magnet:    r.Magnet(),
	}
}

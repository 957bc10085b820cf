package mcp

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/trawl/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for trawl resources.
	uriScheme = "trawl://"

	sessionURI = uriScheme + "session"
)

// sessionInfo is the JSON body of the session resources.
type sessionInfo struct {
	Query        string              `json:"query"`
	Sort         string              `json:"sort"`
	TitleFilter  string              `json:"title_filter,omitempty"`
	ActiveSource string              `json:"active_source"`
	Total        int                 `json:"total"`
	Sources      []domain.FacetEntry `json:"sources"`
	Results      []TorrentOutput     `json:"results"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         sessionURI,
		Name:        "session",
		Description: "The last search made in the terminal UI, as currently filtered",
		MIMEType:    "application/json",
	}, s.handleSessionResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: sessionURI + "/sources/{source}",
		Name:        "session-source",
		Description: "Results of the last search from one tracker",
		MIMEType:    "application/json",
	}, s.handleSessionSourceResource)
}

// handleSessionResource returns the stored session with its own filter and
// source applied.
func (s *Server) handleSessionResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	state, ok := s.loadSession()
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return s.sessionResult(req.Params.URI, state, state.ActiveSource)
}

// handleSessionSourceResource returns the stored session narrowed to the
// tracker named in the URI.
func (s *Server) handleSessionSourceResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	source := extractSource(req.Params.URI)
	if source == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	state, ok := s.loadSession()
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return s.sessionResult(req.Params.URI, state, source)
}

func (s *Server) loadSession() (domain.SessionState, bool) {
	if s.ports.Session == nil {
		return domain.SessionState{}, false
	}
	state, ok := s.ports.Session.Load()
	if !ok || state.IsEmpty() {
		return domain.SessionState{}, false
	}
	return state, true
}

func (s *Server) sessionResult(uri string, state domain.SessionState, source string) (*mcp.ReadResourceResult, error) {
	visible := s.ports.Results.Filter(state.Results, state.TitleFilter, source)

	info := sessionInfo{
		Query:        state.Query,
		Sort:         state.Sort.String(),
		TitleFilter:  state.TitleFilter,
		ActiveSource: source,
		Total:        len(state.Results),
		Sources:      s.ports.Results.Facets(state.Results, false),
		Results:      make([]TorrentOutput, len(visible)),
	}
	for i := range visible {
		info.Results[i] = toTorrentOutput(&visible[i])
	}

	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling session: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractSource extracts the tracker from a URI like trawl://session/sources/{source}.
func extractSource(uri string) string {
	const prefix = sessionURI + "/sources/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	source, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil || strings.Contains(source, "/") {
		return ""
	}
	return source
}

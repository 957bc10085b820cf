package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/trawl/internal/core/domain"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	if ports.Results == nil {
		ports.Results = &mockResultService{}
	}
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		collector := &mockCollector{results: testRecords()}
		server := newTestServer(t, &Ports{Search: collector})

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: " ubuntu "})

		require.NoError(t, err)
		assert.Equal(t, "ubuntu", output.Query)
		assert.Equal(t, " ubuntu ", collector.query)
		assert.Equal(t, domain.DefaultSortSpec(), collector.spec)
		assert.Equal(t, "seeds:desc", output.Sort)
		assert.Equal(t, 3, output.Total)
		assert.Equal(t, 3, output.Count)
		assert.False(t, output.Partial)
		require.Len(t, output.Results, 3)
		assert.Equal(t, "Ubuntu 24.04 Desktop", output.Results[0].Title)
		assert.Equal(t, int64(900), *output.Results[0].Seeders)
		assert.Equal(t, "nyaa", output.Results[0].Tracker)
		assert.Equal(t, "magnet:?xt=urn:btih:aaa", output.Results[0].Magnet)
		assert.Equal(t, []domain.FacetEntry{
			{Source: domain.AllSource, Count: 3},
			{Source: "nyaa", Count: 2},
			{Source: "1337x", Count: 1},
		}, output.Sources)
	})

	t.Run("applies sort source filter and limit", func(t *testing.T) {
		collector := &mockCollector{results: testRecords()}
		server := newTestServer(t, &Ports{Search: collector})

		_, output, err := server.handleSearch(ctx, nil, SearchInput{
			Query:  "ubuntu",
			Sort:   "size",
			Dir:    "asc",
			Source: "nyaa",
			Filter: "ubuntu",
			Limit:  1,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.SortSpec{Key: domain.SortBySize, Direction: domain.SortAsc}, collector.spec)
		assert.Equal(t, 3, output.Total)
		require.Equal(t, 1, output.Count)
		assert.Equal(t, "Ubuntu 24.04 Desktop", output.Results[0].Title)
	})

	t.Run("invalid sort key", func(t *testing.T) {
		server := newTestServer(t, &Ports{Search: &mockCollector{}})

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "x", Sort: "peers"})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("partial results on stream failure", func(t *testing.T) {
		collector := &mockCollector{
			results: testRecords()[:1],
			err:     domain.ErrStreamAborted,
		}
		server := newTestServer(t, &Ports{Search: collector})

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "ubuntu"})

		require.NoError(t, err)
		assert.True(t, output.Partial)
		assert.Contains(t, output.Error, "stream ended abnormally")
		assert.Equal(t, 1, output.Count)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		collector := &mockCollector{err: errors.New("connection refused")}
		server := newTestServer(t, &Ports{Search: collector})

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})

	t.Run("empty query", func(t *testing.T) {
		collector := &mockCollector{err: domain.ErrEmptyQuery}
		server := newTestServer(t, &Ports{Search: collector})

		_, _, err := server.handleSearch(ctx, nil, SearchInput{Query: " "})

		assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	})
}

func TestServer_handleAdd(t *testing.T) {
	ctx := context.Background()

	t.Run("sends magnet", func(t *testing.T) {
		actions := &mockActionService{}
		server := newTestServer(t, &Ports{Search: &mockCollector{}, Actions: actions})

		_, output, err := server.handleAdd(ctx, nil, AddInput{Magnet: " magnet:?xt=urn:btih:abc "})

		require.NoError(t, err)
		assert.True(t, output.Added)
		assert.Equal(t, []string{"magnet:?xt=urn:btih:abc"}, actions.downloaded)
	})

	t.Run("empty magnet", func(t *testing.T) {
		server := newTestServer(t, &Ports{Search: &mockCollector{}, Actions: &mockActionService{}})

		_, _, err := server.handleAdd(ctx, nil, AddInput{})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("backend failure", func(t *testing.T) {
		actions := &mockActionService{err: domain.ErrBackendUnavailable}
		server := newTestServer(t, &Ports{Search: &mockCollector{}, Actions: actions})

		_, _, err := server.handleAdd(ctx, nil, AddInput{Magnet: "magnet:?xt=urn:btih:abc"})

		assert.ErrorIs(t, err, domain.ErrBackendUnavailable)
	})
}

package mcp

import (
	"context"
	"strings"

	"github.com/custodia-labs/trawl/internal/core/domain"
)

// mockCollector is a mock implementation of driving.SearchCollector.
type mockCollector struct {
	results []domain.ResultRecord
	err     error
	query   string
	spec    domain.SortSpec
}

func (m *mockCollector) Collect(
	_ context.Context,
	query string,
	spec domain.SortSpec,
	_ func(int),
) ([]domain.ResultRecord, error) {
	m.query = query
	m.spec = spec
	return m.results, m.err
}

// mockResultService narrows by tracker and substring, and counts per tracker.
type mockResultService struct{}

func (m *mockResultService) Insert(
	collection []domain.ResultRecord, record domain.ResultRecord, _ domain.SortSpec,
) []domain.ResultRecord {
	return append(collection, record)
}

func (m *mockResultService) Resort(collection []domain.ResultRecord, _ domain.SortSpec) []domain.ResultRecord {
	return collection
}

func (m *mockResultService) Facets(collection []domain.ResultRecord, _ bool) []domain.FacetEntry {
	out := []domain.FacetEntry{{Source: domain.AllSource, Count: len(collection)}}
	index := map[string]int{}
	for _, r := range collection {
		if r.Tracker == "" {
			continue
		}
		if i, ok := index[r.Tracker]; ok {
			out[i].Count++
			continue
		}
		index[r.Tracker] = len(out)
		out = append(out, domain.FacetEntry{Source: r.Tracker, Count: 1})
	}
	return out
}

func (m *mockResultService) Filter(collection []domain.ResultRecord, query, source string) []domain.ResultRecord {
	var out []domain.ResultRecord
	for _, r := range collection {
		if source != domain.AllSource && r.Tracker != source {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(r.Title), strings.ToLower(query)) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func (m *mockResultService) Highlight(string, string) []int { return nil }

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	state  domain.SessionState
	stored bool
}

func (m *mockSessionService) Load() (domain.SessionState, bool) { return m.state, m.stored }
func (m *mockSessionService) Begin(string) error { return nil }
func (m *mockSessionService) SetTitleFilter(string) error { return nil }
func (m *mockSessionService) SetSort(domain.SortSpec) error { return nil }
func (m *mockSessionService) SetActiveSource(string) error { return nil }
func (m *mockSessionService) SetResults([]domain.ResultRecord) error { return nil }
func (m *mockSessionService) SetScrollOffset(int) error { return nil }

// mockActionService is a mock implementation of driving.ResultActionService.
type mockActionService struct {
	downloaded []string
	err        error
}

func (m *mockActionService) Download(_ context.Context, r *domain.ResultRecord) error {
	if m.err != nil {
		return m.err
	}
	m.downloaded = append(m.downloaded, r.MagnetURI)
	return nil
}

func (m *mockActionService) CopyMagnet(context.Context, *domain.ResultRecord) error { return m.err }
func (m *mockActionService) OpenDetails(context.Context, *domain.ResultRecord) error { return m.err }

func seeds(n int64) *int64 { return &n }

func testRecords() []domain.ResultRecord {
	return []domain.ResultRecord{
		{Title: "Ubuntu 24.04 Desktop", Seeders: seeds(900), Tracker: "nyaa", MagnetURI: "magnet:?xt=urn:btih:aaa"},
		{Title: "Ubuntu 24.04 Server", Seeders: seeds(400), Tracker: "1337x", MagnetURI: "magnet:?xt=urn:btih:bbb"},
		{Title: "Kubuntu 24.04", Seeders: seeds(50), Tracker: "nyaa"},
	}
}

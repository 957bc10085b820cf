package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/trawl/internal/core/domain"
	"github.com/custodia-labs/trawl/internal/core/ports/driving"
)

// MockSearchService implements driving.SearchService for testing.
type MockSearchService struct {
	StartFunc func(ctx context.Context, query string) (domain.SearchSession, <-chan domain.StreamEvent, error)
	cancelled int
}

func (m *MockSearchService) Start(
	ctx context.Context, query string,
) (domain.SearchSession, <-chan domain.StreamEvent, error) {
	if m.StartFunc != nil {
		return m.StartFunc(ctx, query)
	}
	events := make(chan domain.StreamEvent)
	close(events)
	return domain.SearchSession(query), events, nil
}

func (m *MockSearchService) Cancel() { m.cancelled++ }

func (m *MockSearchService) IsCurrent(domain.SearchSession) bool { return true }

func (m *MockSearchService) Loading() bool { return false }

// MockResultService implements driving.ResultService for testing.
type MockResultService struct{}

func (m *MockResultService) Insert(
	collection []domain.ResultRecord, record domain.ResultRecord, _ domain.SortSpec,
) []domain.ResultRecord {
	return append(collection, record)
}

func (m *MockResultService) Resort(collection []domain.ResultRecord, _ domain.SortSpec) []domain.ResultRecord {
	return collection
}

func (m *MockResultService) Facets(collection []domain.ResultRecord, _ bool) []domain.FacetEntry {
	if len(collection) == 0 {
		return nil
	}
	return []domain.FacetEntry{{Source: domain.AllSource, Count: len(collection)}}
}

func (m *MockResultService) Filter(collection []domain.ResultRecord, _, _ string) []domain.ResultRecord {
	return collection
}

func (m *MockResultService) Highlight(string, string) []int { return nil }

// MockSessionService implements driving.SessionService for testing.
type MockSessionService struct {
	state  domain.SessionState
	stored bool
}

func (m *MockSessionService) Load() (domain.SessionState, bool) { return m.state, m.stored }

func (m *MockSessionService) Begin(query string) error {
	sort := m.state.Sort
	m.state = domain.NewSessionState()
	m.state.Query = query
	if sort.IsValid() {
		m.state.Sort = sort
	}
	m.stored = true
	return nil
}

func (m *MockSessionService) SetTitleFilter(filter string) error {
	m.state.TitleFilter = filter
	return nil
}

func (m *MockSessionService) SetSort(spec domain.SortSpec) error {
	m.state.Sort = spec
	return nil
}

func (m *MockSessionService) SetActiveSource(source string) error {
	m.state.ActiveSource = source
	return nil
}

func (m *MockSessionService) SetResults(results []domain.ResultRecord) error {
	m.state.Results = results
	return nil
}

func (m *MockSessionService) SetScrollOffset(offset int) error {
	m.state.ScrollOffset = offset
	return nil
}

// MockSettingsService implements driving.SettingsService for testing.
type MockSettingsService struct {
	settings domain.AppSettings
	gets     int
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	m.gets++
	s := m.settings
	return &s, nil
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	m.settings = *settings
	return nil
}

func (m *MockSettingsService) SetServer(baseURL, sessionToken string) error {
	m.settings.Server.BaseURL = baseURL
	m.settings.Server.SessionToken = sessionToken
	return nil
}

func (m *MockSettingsService) SetRenderMode(mode domain.RenderMode) error {
	m.settings.UI.RenderMode = mode
	return nil
}

func (m *MockSettingsService) SetPersistSession(persist bool) error {
	m.settings.Session.Persist = persist
	return nil
}

func (m *MockSettingsService) Validate() error { return nil }

func (m *MockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *MockSettingsService) ConfigPath() string { return ":memory:" }

// Verify interface compliance.
var (
	_ driving.SearchService   = (*MockSearchService)(nil)
	_ driving.ResultService   = (*MockResultService)(nil)
	_ driving.SessionService  = (*MockSessionService)(nil)
	_ driving.SettingsService = (*MockSettingsService)(nil)
)

func TestNewPorts(t *testing.T) {
	search := &MockSearchService{}
	results := &MockResultService{}
	session := &MockSessionService{}

	ports := NewPorts(search, results, session)

	require.NotNil(t, ports)
	assert.Equal(t, search, ports.Search)
	assert.Equal(t, results, ports.Results)
	assert.Equal(t, session, ports.Session)
	assert.Nil(t, ports.Settings)
	assert.Nil(t, ports.ResultAction)
	assert.Nil(t, ports.History)
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{
			name:    "all required set",
			ports:   NewPorts(&MockSearchService{}, &MockResultService{}, &MockSessionService{}),
			wantErr: nil,
		},
		{
			name:    "nil ports",
			ports:   nil,
			wantErr: ErrInvalidPorts,
		},
		{
			name:    "missing search",
			ports:   NewPorts(nil, &MockResultService{}, &MockSessionService{}),
			wantErr: ErrMissingSearchService,
		},
		{
			name:    "missing results",
			ports:   NewPorts(&MockSearchService{}, nil, &MockSessionService{}),
			wantErr: ErrMissingResultService,
		},
		{
			name:    "missing session",
			ports:   NewPorts(&MockSearchService{}, &MockResultService{}, nil),
			wantErr: ErrMissingSessionService,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPorts_Validate_OptionalServices(t *testing.T) {
	ports := NewPorts(&MockSearchService{}, &MockResultService{}, &MockSessionService{})
	ports.Settings = nil
	ports.History = nil
	ports.ResultAction = nil

	assert.NoError(t, ports.Validate())
}

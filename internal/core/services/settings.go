package services

import (
	"fmt"
	"net/url"

	"github.com/custodia-labs/trawl/internal/core/domain"
	"github.com/custodia-labs/trawl/internal/core/ports/driven"
	"github.com/custodia-labs/trawl/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyServerBaseURL  = "server.base_url"
	keyServerToken    = "server.session_token"
	keyServerRate     = "server.requests_per_second"
	keyUIRowEstimate  = "ui.row_estimate"
	keyUIOverscan     = "ui.overscan"
	keyUIRenderMode   = "ui.render_mode"
	keySessionPersist = "session.persist"
	keySessionHistory = "session.history_size"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Server: domain.ServerSettings{
			BaseURL:           s.configStore.GetString(keyServerBaseURL),
			SessionToken:      s.configStore.GetString(keyServerToken),
			RequestsPerSecond: s.getFloat(keyServerRate, defaults.Server.RequestsPerSecond),
		},
		UI: domain.UISettings{
			RowEstimate: s.getInt(keyUIRowEstimate, defaults.UI.RowEstimate),
			Overscan:    s.getInt(keyUIOverscan, defaults.UI.Overscan),
			RenderMode:  s.getRenderMode(defaults.UI.RenderMode),
		},
		Session: domain.SessionSettings{
			Persist:     s.getBool(keySessionPersist, defaults.Session.Persist),
			HistorySize: s.getInt(keySessionHistory, defaults.Session.HistorySize),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyServerBaseURL, settings.Server.BaseURL},
		{keyServerRate, settings.Server.RequestsPerSecond},
		{keyUIRowEstimate, settings.UI.RowEstimate},
		{keyUIOverscan, settings.UI.Overscan},
		{keyUIRenderMode, settings.UI.RenderMode.String()},
		{keySessionPersist, settings.Session.Persist},
		{keySessionHistory, settings.Session.HistorySize},
	}
	// An empty token never overwrites a stored one.
	if settings.Server.SessionToken != "" {
		values = append(values, struct {
			key   string
			value any
		}{keyServerToken, settings.Server.SessionToken})
	}

	for _, kv := range values {
		if err := s.configStore.Set(kv.key, kv.value); err != nil {
			return fmt.Errorf("save %s: %w", kv.key, err)
		}
	}
	return nil
}

// SetServer updates the backend URL and session token.
func (s *SettingsService) SetServer(baseURL, sessionToken string) error {
	if err := validateBaseURL(baseURL); err != nil {
		return err
	}
	if err := s.configStore.Set(keyServerBaseURL, baseURL); err != nil {
		return fmt.Errorf("save %s: %w", keyServerBaseURL, err)
	}
	if sessionToken == "" {
		return nil
	}
	if err := s.configStore.Set(keyServerToken, sessionToken); err != nil {
		return fmt.Errorf("save %s: %w", keyServerToken, err)
	}
	return nil
}

// SetRenderMode updates the result list render mode.
func (s *SettingsService) SetRenderMode(mode domain.RenderMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("%w: render mode %q", domain.ErrInvalidInput, mode)
	}
	return s.configStore.Set(keyUIRenderMode, mode.String())
}

// SetPersistSession enables or disables on-disk session persistence.
func (s *SettingsService) SetPersistSession(persist bool) error {
	return s.configStore.Set(keySessionPersist, persist)
}

// Validate checks that a search can be issued with the current settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if !settings.Server.IsConfigured() {
		return fmt.Errorf("%w: server.base_url is not set", domain.ErrInvalidInput)
	}
	if err := validateBaseURL(settings.Server.BaseURL); err != nil {
		return err
	}
	if settings.UI.Overscan < 0 || settings.UI.RowEstimate < 1 {
		return fmt.Errorf("%w: ui.overscan must be >= 0 and ui.row_estimate >= 1", domain.ErrInvalidInput)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ConfigPath returns the path of the backing config file.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: server URL %q must be http(s)://host[:port]", domain.ErrInvalidInput, raw)
	}
	return nil
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getRenderMode(defaultVal domain.RenderMode) domain.RenderMode {
	val := s.configStore.GetString(keyUIRenderMode)
	if val == "" {
		return defaultVal
	}
	mode := domain.RenderMode(val)
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

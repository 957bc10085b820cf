package driving

import "github.com/custodia-labs/trawl/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetServer updates the backend URL and session token.
	SetServer(baseURL, sessionToken string) error

	// SetRenderMode updates the result list render mode.
	SetRenderMode(mode domain.RenderMode) error

	// SetPersistSession enables or disables on-disk session persistence.
	SetPersistSession(persist bool) error

	// Validate checks that a search can be issued with the current settings.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ConfigPath returns the path of the backing config file.
	ConfigPath() string
}

package domain

// RenderMode selects how the result list is drawn.
type RenderMode string

// Available render modes.
const (
	// RenderModeAuto picks windowed rendering on a capable terminal
	// and plain rendering otherwise.
	RenderModeAuto RenderMode = "auto"

	// RenderModeWindowed draws only rows intersecting the viewport.
	RenderModeWindowed RenderMode = "windowed"

	// RenderModePlain draws every row and slices the viewport out of it.
	RenderModePlain RenderMode = "plain"
)

// IsValid returns true if the render mode is recognised.
func (m RenderMode) IsValid() bool {
	switch m {
	case RenderModeAuto, RenderModeWindowed, RenderModePlain:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m RenderMode) String() string {
	return string(m)
}

// Description returns a human-readable description of the mode.
func (m RenderMode) Description() string {
	switch m {
	case RenderModeAuto:
		return "Auto (windowed on a capable terminal)"
	case RenderModeWindowed:
		return "Windowed (render visible rows only)"
	case RenderModePlain:
		return "Plain (render the full list)"
	default:
		return unknownDescription
	}
}

// AllRenderModes returns all available render modes.
func AllRenderModes() []RenderMode {
	return []RenderMode{RenderModeAuto, RenderModeWindowed, RenderModePlain}
}

// ServerSettings holds search backend configuration.
type ServerSettings struct {
	// BaseURL is the backend root, e.g. http://localhost:8000.
	BaseURL string

	// SessionToken is sent as the session_token cookie.
	SessionToken string

	// RequestsPerSecond paces outgoing API calls. Zero disables pacing.
	RequestsPerSecond float64
}

// IsConfigured returns true if a backend URL is set.
func (s ServerSettings) IsConfigured() bool {
	return s.BaseURL != ""
}

// UISettings holds result list configuration.
type UISettings struct {
	// RowEstimate is the assumed height in lines of an unmeasured row.
	RowEstimate int

	// Overscan is the number of rows rendered beyond each viewport edge.
	Overscan int

	// RenderMode selects windowed or plain rendering.
	RenderMode RenderMode
}

// SessionSettings holds session persistence configuration.
type SessionSettings struct {
	// Persist keeps the last search session on disk across runs.
	Persist bool

	// HistorySize is the number of past queries offered as suggestions.
	HistorySize int
}

// AppSettings holds all application settings.
type AppSettings struct {
	Server  ServerSettings
	UI      UISettings
	Session SessionSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The backend URL is left unset; it must be configured before searching.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Server: ServerSettings{
			RequestsPerSecond: 2,
		},
		UI: UISettings{
			RowEstimate: 3,
			Overscan:    6,
			RenderMode:  RenderModeAuto,
		},
		Session: SessionSettings{
			Persist:     false,
			HistorySize: 20,
		},
	}
}

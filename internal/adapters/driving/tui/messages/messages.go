// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/trawl/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the streaming search view.
	ViewSearch
	// ViewHelp is the help/keybindings view.
	ViewHelp
	// ViewSettings is the settings configuration view.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewHelp:
		return "help"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// StreamBatch carries the records that arrived since the last batch.
// Done is set on the final batch of a run, with Err describing why it ended.
type StreamBatch struct {
	Session domain.SearchSession
	Records []domain.ResultRecord
	Done    bool
	Err     error

	// Events is the channel to keep listening on while !Done.
	Events <-chan domain.StreamEvent
}

// ScrollChanged is sent when the user scrolls the result list.
type ScrollChanged struct {
	Offset int
}

// FrameRendered marks that a frame has been drawn since it was scheduled.
type FrameRendered struct{}

// ActionCompleted reports the outcome of a result action.
type ActionCompleted struct {
	Action string
	Title  string
	Err    error
}

// NotificationExpired dismisses the transient notification with ID.
type NotificationExpired struct {
	ID int
}

// SuggestionsLoaded carries query history matching Prefix.
type SuggestionsLoaded struct {
	Prefix  string
	Queries []string
}

// ConfigReloaded is sent when the config file changed on disk.
type ConfigReloaded struct{}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals settings were saved.
type SettingsSaved struct {
	Err error
}

// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/trawl/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/trawl/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/trawl/internal/core/domain"
	"github.com/custodia-labs/trawl/internal/core/ports/driving"
)

// Section tracks which settings section is active.
type Section int

const (
	SectionOverview Section = iota
	SectionServer
	SectionRenderMode
)

// Overview rows.
const (
	rowServer = iota
	rowRenderMode
	rowPersist
	overviewRows
)

// Server form fields.
const (
	fieldURL = iota
	fieldToken
)

// Key constants for key handling.
const (
	keyUp       = "up"
	keyDown     = "down"
	keyEnter    = "enter"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
)

var errNoSettingsService = errors.New("settings service not available")

// View is the settings configuration view.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	// Current settings
	settings *domain.AppSettings
	err      error

	// Navigation state
	section      Section
	selected     int // selection within current section
	focusedField int // server form field with focus

	urlInput   textinput.Model
	tokenInput textinput.Model

	// Dimensions
	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	urlInput := textinput.New()
	urlInput.Placeholder = "http://localhost:8000"
	urlInput.CharLimit = 512

	tokenInput := textinput.New()
	tokenInput.Placeholder = "leave empty to keep the current token"
	tokenInput.EchoMode = textinput.EchoPassword
	tokenInput.CharLimit = 1024

	return &View{
		styles:          s,
		settingsService: settingsService,
		section:         SectionOverview,
		urlInput:        urlInput,
		tokenInput:      tokenInput,
	}
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsLoaded{Err: errNoSettingsService}
		}
		settings, err := svc.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.backToOverview()
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses based on current section.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Global escape to go back
	if msg.Type == tea.KeyEsc {
		if v.section == SectionOverview {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		v.backToOverview()
		return v, nil
	}

	switch v.section {
	case SectionOverview:
		return v.handleOverviewKeys(msg)
	case SectionServer:
		return v.handleServerKeys(msg)
	case SectionRenderMode:
		return v.handleRenderModeKeys(msg)
	}

	return v, nil
}

func (v *View) handleOverviewKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyUp, "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < overviewRows-1 {
			v.selected++
		}
	case keyEnter, " ":
		if v.settings == nil {
			return v, nil
		}
		switch v.selected {
		case rowServer:
			v.section = SectionServer
			v.focusedField = fieldURL
			v.urlInput.SetValue(v.settings.Server.BaseURL)
			v.tokenInput.SetValue("")
			v.tokenInput.Blur()
			return v, v.urlInput.Focus()
		case rowRenderMode:
			v.section = SectionRenderMode
			v.selected = v.renderModeIndex()
		case rowPersist:
			return v, v.setPersist(!v.settings.Session.Persist)
		}
	}
	return v, nil
}

func (v *View) handleServerKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyTab, keyShiftTab, keyUp, keyDown:
		if v.focusedField == fieldURL {
			v.focusedField = fieldToken
			v.urlInput.Blur()
			return v, v.tokenInput.Focus()
		}
		v.focusedField = fieldURL
		v.tokenInput.Blur()
		return v, v.urlInput.Focus()
	case keyEnter:
		return v, v.setServer(strings.TrimSpace(v.urlInput.Value()), v.tokenInput.Value())
	}

	var cmd tea.Cmd
	if v.focusedField == fieldURL {
		v.urlInput, cmd = v.urlInput.Update(msg)
	} else {
		v.tokenInput, cmd = v.tokenInput.Update(msg)
	}
	return v, cmd
}

func (v *View) handleRenderModeKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	modes := domain.AllRenderModes()

	switch msg.String() {
	case keyUp, "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(modes)-1 {
			v.selected++
		}
	case keyEnter:
		if v.selected >= 0 && v.selected < len(modes) {
			return v, v.setRenderMode(modes[v.selected])
		}
	}
	return v, nil
}

// Commands to update settings.

func (v *View) setServer(baseURL, token string) tea.Cmd {
	return v.save(func(svc driving.SettingsService) error {
		return svc.SetServer(baseURL, token)
	})
}

func (v *View) setRenderMode(mode domain.RenderMode) tea.Cmd {
	return v.save(func(svc driving.SettingsService) error {
		return svc.SetRenderMode(mode)
	})
}

func (v *View) setPersist(persist bool) tea.Cmd {
	return v.save(func(svc driving.SettingsService) error {
		return svc.SetPersistSession(persist)
	})
}

func (v *View) save(apply func(driving.SettingsService) error) tea.Cmd {
	svc := v.settingsService
	return func() tea.Msg {
		if svc == nil {
			return messages.SettingsSaved{Err: errNoSettingsService}
		}
		return messages.SettingsSaved{Err: apply(svc)}
	}
}

func (v *View) backToOverview() {
	v.section = SectionOverview
	v.selected = 0
	v.focusedField = fieldURL
	v.urlInput.Blur()
	v.tokenInput.Blur()
	v.tokenInput.SetValue("")
}

func (v *View) renderModeIndex() int {
	if v.settings == nil {
		return 0
	}
	for i, m := range domain.AllRenderModes() {
		if m == v.settings.UI.RenderMode {
			return i
		}
	}
	return 0
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	// Error display
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	}

	// Loading state
	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		return b.String()
	}

	switch v.section {
	case SectionOverview:
		b.WriteString(v.renderOverview())
	case SectionServer:
		b.WriteString(v.renderServerForm())
	case SectionRenderMode:
		b.WriteString(v.renderModeSelect())
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderOverview() string {
	var b strings.Builder

	server := "Not Set"
	if v.settings.Server.IsConfigured() {
		server = v.settings.Server.BaseURL
	}
	token := v.styles.Warning.Render("[no session token]")
	if v.settings.Server.SessionToken != "" {
		token = v.styles.Success.Render("[token set]")
	}
	persist := "Off (kept for this run only)"
	if v.settings.Session.Persist {
		persist = "On (restored on next start)"
	}

	items := []struct {
		label  string
		value  string
		status string
	}{
		{label: "Server", value: server, status: token},
		{label: "Render Mode", value: v.settings.UI.RenderMode.Description()},
		{label: "Session Persistence", value: persist},
	}

	for i, item := range items {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		line := fmt.Sprintf("%s%s: %s", indicator, item.label, item.value)
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		if item.status != "" {
			b.WriteString(" " + item.status)
		}
		b.WriteString("\n")
	}

	// Validation status
	b.WriteString("\n")
	if v.settingsService != nil {
		if err := v.settingsService.Validate(); err != nil {
			b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Warning: %s", err.Error())))
		} else {
			b.WriteString(v.styles.Success.Render("Configuration is valid"))
		}
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Config file: " + v.settingsService.ConfigPath()))
	}

	return b.String()
}

func (v *View) renderServerForm() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Search Backend"))
	b.WriteString("\n\n")

	fields := []struct {
		label string
		input textinput.Model
	}{
		{"Base URL:", v.urlInput},
		{"Session Token:", v.tokenInput},
	}
	for i, f := range fields {
		style := v.styles.Normal
		if i == v.focusedField {
			style = v.styles.Subtitle
		}
		b.WriteString(style.Render(f.label))
		b.WriteString("\n")
		b.WriteString(f.input.View())
		b.WriteString("\n\n")
	}

	return b.String()
}

func (v *View) renderModeSelect() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Select Render Mode"))
	b.WriteString("\n\n")

	for i, mode := range domain.AllRenderModes() {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		current := ""
		if mode == v.settings.UI.RenderMode {
			current = v.styles.Success.Render(" (current)")
		}

		line := fmt.Sprintf("%s%s", indicator, mode.Description())
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString(current)
		b.WriteString("\n")
	}

	return b.String()
}

func (v *View) renderHelp() string {
	switch v.section {
	case SectionOverview:
		return v.styles.Help.Render("[j/k] navigate  [enter] edit  [esc] back")
	case SectionServer:
		return v.styles.Help.Render("[tab] next field  [enter] save  [esc] cancel")
	case SectionRenderMode:
		return v.styles.Help.Render("[j/k] navigate  [enter] select  [esc] back")
	default:
		return ""
	}
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.urlInput.Width = max(20, width-6)
	v.tokenInput.Width = max(20, width-6)
}

// Section returns the active section.
func (v *View) Section() Section {
	return v.section
}

// Settings returns the loaded settings, nil before the first load.
func (v *View) Settings() *domain.AppSettings {
	return v.settings
}

// Err returns the last load or save error.
func (v *View) Err() error {
	return v.err
}

// Reset resets the view to initial state.
func (v *View) Reset() {
	v.backToOverview()
	v.err = nil
	v.urlInput.SetValue("")
}

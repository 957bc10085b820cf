package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/trawl/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/trawl/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/trawl/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/trawl/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/trawl/internal/adapters/driving/tui/views/search"
	"github.com/custodia-labs/trawl/internal/adapters/driving/tui/views/settings"
	"github.com/custodia-labs/trawl/internal/logger"
)

// ConfigWatchFunc blocks until ctx is done, calling onChange whenever the
// configuration changes on disk.
type ConfigWatchFunc func(ctx context.Context, onChange func()) error

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model

	menuView     *menu.View
	searchView   *search.View
	settingsView *settings.View

	// watch reloads configuration while the program runs.
	watch ConfigWatchFunc

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	a := &App{
		ports:    ports,
		ctx:      context.Background(),
		styles:   s,
		keymap:   km,
		help:     help.New(),
		menuView: menu.NewView(s, km),
		searchView: search.NewView(s, km, search.Services{
			Search:  ports.Search,
			Results: ports.Results,
			Session: ports.Session,
			Actions: ports.ResultAction,
			History: ports.History,
		}),
		settingsView: settings.NewView(s, ports.Settings),
		currentView:  messages.ViewMenu,
	}
	a.applySettings()
	return a, nil
}

// WithContext sets the context for the app and its search view.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	return a
}

// WithConfigWatch installs a watcher that is started by Run.
func (a *App) WithConfigWatch(watch ConfigWatchFunc) *App {
	a.watch = watch
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("trawl"),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message router
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a, a.updateCurrent(msg)

	case tea.MouseMsg:
		return a, a.updateCurrent(msg)

	case messages.ViewChanged:
		return a, a.switchTo(msg.View)

	case messages.Quit:
		return a, tea.Quit

	// Stream and timer messages belong to the search view even while
	// another view is showing, so an in-flight search keeps accumulating.
	case messages.StreamBatch, messages.FrameRendered, messages.ScrollChanged,
		messages.ActionCompleted, messages.NotificationExpired,
		messages.SuggestionsLoaded, spinner.TickMsg:
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.ConfigReloaded:
		a.applySettings()
		if a.currentView == messages.ViewSettings {
			return a, a.settingsView.Init()
		}
		return a, nil

	case messages.SettingsSaved:
		if msg.Err == nil {
			a.applySettings()
		}
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd
	}

	return a, a.updateCurrent(msg)
}

// updateCurrent forwards msg to the active view.
func (a *App) updateCurrent(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
		a.err = a.searchView.Err()
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewHelp:
		if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
			a.currentView = messages.ViewMenu
		}
	}
	return cmd
}

// switchTo activates a view, rehydrating the search view from the session
// store each time it is shown.
func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	logger.Debug("Switching view: %s -> %s", a.currentView, view)
	if a.currentView == messages.ViewSearch {
		a.searchView.Flush()
	}
	a.currentView = view
	switch view {
	case messages.ViewSearch:
		return a.searchView.Mount()
	case messages.ViewSettings:
		a.settingsView.Reset()
		return a.settingsView.Init()
	case messages.ViewMenu, messages.ViewHelp:
	}
	return nil
}

// applySettings pushes the current UI settings into the search view.
func (a *App) applySettings() {
	if a.ports.Settings == nil {
		return
	}
	current, err := a.ports.Settings.Get()
	if err != nil {
		logger.Warn("Failed to read settings: %v", err)
		return
	}
	a.searchView.Configure(current.UI)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + "\n\n" +
		a.help.FullHelpView(a.keymap.FullHelp()) + "\n\n" +
		a.styles.Help.Render("[esc] back to menu")
}

// Run starts the TUI application and the config watcher, if any.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(a.ctx)
	defer cancel()

	p := tea.NewProgram(a,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)

	if a.watch != nil {
		go func() {
			if err := a.watch(ctx, func() { p.Send(messages.ConfigReloaded{}) }); err != nil {
				logger.Warn("Config watcher stopped: %v", err)
			}
		}()
	}

	_, err := p.Run()
	a.ports.Search.Cancel()
	a.searchView.Flush()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// SearchView returns the search view.
func (a *App) SearchView() *search.View {
	return a.searchView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.help.Width = width
	a.menuView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
}

// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/trawl/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/trawl/internal/adapters/driving/tui/styles"
)

// State represents the current application state for display.
type State string

const (
	StateReady     State = "ready"
	StateStreaming State = "streaming"
	StateResults   State = "results"
	StateError     State = "error"
	StateHelp      State = "help"
)

// Bar displays stream progress, result counts, transient notices and
// keybinding hints.
type Bar struct {
	styles  *styles.Styles
	keymap  *keymap.KeyMap
	spinner spinner.Model
	state   State
	message string
	notice  string
	shown   int
	total   int
	width   int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	sp.Style = s.Subtitle

	return &Bar{
		styles:  s,
		keymap:  km,
		spinner: sp,
		state:   StateReady,
		width:   80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update advances the spinner while streaming.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	tick, ok := msg.(spinner.TickMsg)
	if !ok || s.state != StateStreaming {
		return s, nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(tick)
	return s, cmd
}

// Spin returns the command that starts the spinner.
func (s *Bar) Spin() tea.Cmd {
	return s.spinner.Tick
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the state and counts.
func (s *Bar) renderLeft() string {
	switch s.state {
	case StateStreaming:
		return s.spinner.View() + " " + s.styles.Normal.Render("Streaming… "+s.counts())
	case StateError:
		if s.message != "" {
			return s.styles.Error.Render(fmt.Sprintf("Error: %s", s.message))
		}
		return s.styles.Error.Render("Error")
	case StateHelp:
		return s.styles.Normal.Render("Help")
	case StateResults:
		if s.message != "" {
			return s.styles.Warning.Render(s.message) + " " + s.styles.Normal.Render(s.counts())
		}
		return s.styles.Normal.Render(s.counts())
	case StateReady:
	}
	return s.styles.Muted.Render("Ready")
}

// counts formats "n results" or "n of m results" when narrowed.
func (s *Bar) counts() string {
	noun := "results"
	if s.total == 1 {
		noun = "result"
	}
	if s.shown != s.total {
		return fmt.Sprintf("%d of %d %s", s.shown, s.total, noun)
	}
	return fmt.Sprintf("%d %s", s.total, noun)
}

// renderRight renders the notice, or keybinding hints when there is none.
func (s *Bar) renderRight() string {
	if s.notice != "" {
		return s.styles.Success.Render(s.notice)
	}

	var bindings []key.Binding
	switch {
	case s.state == StateStreaming:
		bindings = s.keymap.StreamingHelp()
	case s.state == StateResults && s.total > 0:
		bindings = s.keymap.ResultsHelp()
	default:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets the error or status message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetNotice shows a transient notice in place of the key hints.
func (s *Bar) SetNotice(notice string) {
	s.notice = notice
}

// Notice returns the current notice.
func (s *Bar) Notice() string {
	return s.notice
}

// SetResultCount sets how many results are shown out of the total.
func (s *Bar) SetResultCount(shown, total int) {
	s.shown = shown
	s.total = total
}

// ResultCount returns the total result count.
func (s *Bar) ResultCount() int {
	return s.total
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the status bar to default state.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.notice = ""
	s.shown = 0
	s.total = 0
}

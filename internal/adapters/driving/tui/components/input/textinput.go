// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/trawl/internal/adapters/driving/tui/styles"
)

// Default labels and placeholders.
const (
	SearchLabel       = "Search: "
	SearchPlaceholder = "Enter search query..."
	FilterLabel       = "Filter: "
	FilterPlaceholder = "Filter titles..."
)

// SearchInput wraps a bubbles textinput with a label and optional
// history suggestions. The same component serves the query and the title
// filter.
type SearchInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// NewSearchInput creates a focused query input with suggestions enabled.
func NewSearchInput(s *styles.Styles) *SearchInput {
	in := newInput(s, SearchLabel, SearchPlaceholder)
	in.textinput.ShowSuggestions = true
	in.textinput.Focus()
	return in
}

// NewFilterInput creates a blurred title filter input.
func NewFilterInput(s *styles.Styles) *SearchInput {
	return newInput(s, FilterLabel, FilterPlaceholder)
}

func newInput(s *styles.Styles, label, placeholder string) *SearchInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 256
	ti.Width = 50
	ti.CompletionStyle = s.Muted

	return &SearchInput{
		textinput: ti,
		styles:    s,
		label:     label,
		width:     50,
	}
}

// Init initialises the search input.
func (s *SearchInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the search input.
func (s *SearchInput) View() string {
	labelStyle := s.styles.Muted
	if s.textinput.Focused() {
		labelStyle = s.styles.Title
	}
	label := labelStyle.Render(s.label)
	input := s.styles.InputField.Render(s.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, input)
}

// Value returns the current input value.
func (s *SearchInput) Value() string {
	return s.textinput.Value()
}

// SetValue sets the input value and moves the cursor to its end.
func (s *SearchInput) SetValue(value string) {
	s.textinput.SetValue(value)
	s.textinput.CursorEnd()
}

// SetSuggestions replaces the completion candidates.
func (s *SearchInput) SetSuggestions(suggestions []string) {
	s.textinput.SetSuggestions(suggestions)
}

// Suggestions returns the candidates matching the current value.
func (s *SearchInput) Suggestions() []string {
	return s.textinput.MatchedSuggestions()
}

// Label returns the input label.
func (s *SearchInput) Label() string {
	return s.label
}

// Focus sets focus on the input.
func (s *SearchInput) Focus() tea.Cmd {
	return s.textinput.Focus()
}

// Blur removes focus from the input.
func (s *SearchInput) Blur() {
	s.textinput.Blur()
}

// Focused returns whether the input is focused.
func (s *SearchInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth sets the width of the input.
func (s *SearchInput) SetWidth(width int) {
	s.width = width
	// Account for label and padding
	inputWidth := width - lipgloss.Width(s.label) - 4
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.textinput.Width = inputWidth
}

// Width returns the current width.
func (s *SearchInput) Width() int {
	return s.width
}

// Reset clears the input.
func (s *SearchInput) Reset() {
	s.textinput.Reset()
}

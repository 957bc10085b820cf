// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Search submits the query.
	Search key.Binding

	// StopSearch cancels the running stream.
	StopSearch key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// PageUp scrolls one screen up.
	PageUp key.Binding

	// PageDown scrolls one screen down.
	PageDown key.Binding

	// Top jumps to the first result.
	Top key.Binding

	// Bottom jumps to the last result.
	Bottom key.Binding

	// Select confirms a selection.
	Select key.Binding

	// NewSearch focuses the query input from the results.
	NewSearch key.Binding

	// Filter focuses the title filter.
	Filter key.Binding

	// NextSort cycles the sort key.
	NextSort key.Binding

	// FlipSort reverses the sort direction.
	FlipSort key.Binding

	// NextSource selects the next source facet.
	NextSource key.Binding

	// PrevSource selects the previous source facet.
	PrevSource key.Binding

	// Download sends the selected result to the torrent client.
	Download key.Binding

	// CopyMagnet copies the selected result's magnet link.
	CopyMagnet key.Binding

	// OpenDetails opens the selected result's tracker page.
	OpenDetails key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Search: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		StopSearch: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "stop"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "bottom"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		NewSearch: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new search"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		NextSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		FlipSort: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reverse"),
		),
		NextSource: key.NewBinding(
			key.WithKeys("tab", "l"),
			key.WithHelp("tab", "source"),
		),
		PrevSource: key.NewBinding(
			key.WithKeys("shift+tab", "h"),
			key.WithHelp("shift+tab", "prev source"),
		),
		Download: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "download"),
		),
		CopyMagnet: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy magnet"),
		),
		OpenDetails: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Back}
}

// ResultsHelp returns keybindings for the results view.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.Download, k.CopyMagnet, k.Filter, k.NextSort, k.NextSource, k.NewSearch}
}

// StreamingHelp returns keybindings while results are still arriving.
func (k *KeyMap) StreamingHelp() []key.Binding {
	return []key.Binding{k.StopSearch, k.Filter, k.NextSort, k.NextSource}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Search, k.StopSearch, k.NewSearch, k.Filter},
		{k.NextSort, k.FlipSort, k.NextSource, k.PrevSource},
		{k.Download, k.CopyMagnet, k.OpenDetails},
		{k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}

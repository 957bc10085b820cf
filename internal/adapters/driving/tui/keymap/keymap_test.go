package keymap

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()

	require.NotNil(t, km)
}

func TestDefaultKeyMap_Keys(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name    string
		binding key.Binding
		keys    []string
	}{
		{"Quit", km.Quit, []string{"q", "ctrl+c"}},
		{"Back", km.Back, []string{"esc"}},
		{"Search", km.Search, []string{"enter"}},
		{"StopSearch", km.StopSearch, []string{"ctrl+x"}},
		{"Up", km.Up, []string{"up", "k"}},
		{"Down", km.Down, []string{"down", "j"}},
		{"PageDown", km.PageDown, []string{"pgdown", "ctrl+d"}},
		{"Top", km.Top, []string{"home", "g"}},
		{"Bottom", km.Bottom, []string{"end", "G"}},
		{"Filter", km.Filter, []string{"/"}},
		{"NextSort", km.NextSort, []string{"s"}},
		{"FlipSort", km.FlipSort, []string{"r"}},
		{"NextSource", km.NextSource, []string{"tab"}},
		{"PrevSource", km.PrevSource, []string{"shift+tab"}},
		{"Download", km.Download, []string{"d"}},
		{"CopyMagnet", km.CopyMagnet, []string{"c"}},
		{"OpenDetails", km.OpenDetails, []string{"o"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range tt.keys {
				assert.Contains(t, tt.binding.Keys(), k)
			}
		})
	}
}

func TestShortHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.ShortHelp()

	assert.Equal(t, []key.Binding{km.Search, km.Back}, bindings)
}

func TestResultsHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.ResultsHelp()

	require.Len(t, bindings, 6)
	assert.Equal(t, km.Download, bindings[0])
}

func TestStreamingHelp_LeadsWithStop(t *testing.T) {
	km := DefaultKeyMap()

	assert.Equal(t, km.StopSearch, km.StreamingHelp()[0])
}

func TestFullHelp(t *testing.T) {
	km := DefaultKeyMap()

	bindings := km.FullHelp()

	assert.Len(t, bindings, 5)
	assert.Len(t, bindings[0], 6) // navigation
	assert.Len(t, bindings[3], 3) // actions
}

func TestMatches(t *testing.T) {
	km := DefaultKeyMap()

	assert.True(t, Matches("q", km.Quit))
	assert.True(t, Matches("ctrl+c", km.Quit))
	assert.True(t, Matches("k", km.Up))
	assert.True(t, Matches("/", km.Filter))

	assert.False(t, Matches("x", km.Quit))
	assert.False(t, Matches("down", km.Up))
}

func TestBindings_HaveHelp(t *testing.T) {
	km := DefaultKeyMap()

	for _, group := range km.FullHelp() {
		for _, b := range group {
			assert.NotEmpty(t, b.Help().Key)
			assert.NotEmpty(t, b.Help().Desc)
		}
	}
}

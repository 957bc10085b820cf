package list

import (
	"os"

	"golang.org/x/term"

	"github.com/custodia-labs/trawl/internal/core/domain"
)

// Strategy selects how rows are turned into a frame.
type Strategy int

const (
	// Windowed renders only the rows intersecting the viewport plus overscan.
	Windowed Strategy = iota
	// Plain renders every row and slices the visible lines out.
	Plain
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case Windowed:
		return "windowed"
	case Plain:
		return "plain"
	default:
		return "unknown"
	}
}

// ChooseStrategy resolves a configured render mode. Auto picks Windowed
// for interactive terminals and Plain otherwise.
func ChooseStrategy(mode domain.RenderMode, interactive bool) Strategy {
	switch mode {
	case domain.RenderModeWindowed:
		return Windowed
	case domain.RenderModePlain:
		return Plain
	default:
		if interactive {
			return Windowed
		}
		return Plain
	}
}

// DetectStrategy resolves mode against the process's stdout.
func DetectStrategy(mode domain.RenderMode) Strategy {
	return ChooseStrategy(mode, term.IsTerminal(int(os.Stdout.Fd())))
}

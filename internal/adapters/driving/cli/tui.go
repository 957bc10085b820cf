package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/trawl/internal/adapters/driving/tui"
	"github.com/custodia-labs/trawl/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for trawl.

Results appear while the backend is still streaming them. The list can be
sorted, narrowed to one tracker and fuzzy-filtered by title at any time.

Controls:
  enter      - Search
  ↑/k, ↓/j   - Navigate results
  s / r      - Next sort key / reverse direction
  tab        - Next source
  /          - Filter titles
  d / c / o  - Download / copy magnet / open details
  ctrl+x     - Stop the stream
  esc        - Back
  q          - Quit

With --verbose, logs are written to ~/.trawl/trawl.log.`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// buildPorts maps the CLI services onto the TUI's ports.
func buildPorts(svc *Services) *tui.Ports {
	ports := tui.NewPorts(svc.Search, svc.Results, svc.Session)
	ports.ResultAction = svc.Actions
	ports.History = svc.History
	ports.Settings = svc.Settings
	return ports
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	svc, err := requireServices()
	if err != nil {
		return err
	}

	// The TUI owns the terminal; verbose output goes to a file.
	if logger.IsVerbose() && svc.LogFile != "" {
		restore, logErr := logger.ToFile(svc.LogFile)
		if logErr != nil {
			return logErr
		}
		defer func() {
			if closeErr := restore(); closeErr != nil {
				fmt.Fprintf(os.Stderr, "closing log file: %v\n", closeErr)
			}
		}()
	}

	app, err := tui.NewApp(buildPorts(svc))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())
	if svc.ConfigWatch != nil {
		app.WithConfigWatch(svc.ConfigWatch)
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

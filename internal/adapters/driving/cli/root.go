// Package cli provides the cobra command tree for trawl.
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/trawl/internal/adapters/driving/tui"
	"github.com/custodia-labs/trawl/internal/core/ports/driving"
	"github.com/custodia-labs/trawl/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// Options are the global flags shared by every command.
type Options struct {
	// Verbose enables debug logging.
	Verbose bool

	// Server overrides server.base_url for this invocation.
	Server string

	// ConfigDir overrides the ~/.trawl config directory.
	ConfigDir string
}

// Services holds the driving ports the commands use.
type Services struct {
	Search    driving.SearchService
	Collector driving.SearchCollector
	Results   driving.ResultService
	Session   driving.SessionService
	Actions   driving.ResultActionService
	History   driving.HistoryService
	Settings  driving.SettingsService

	// ConfigWatch reloads configuration while the TUI runs.
	ConfigWatch tui.ConfigWatchFunc

	// LogFile receives verbose output while the TUI owns the terminal.
	LogFile string
}

// Builder constructs the services once the global flags are parsed. The
// returned cleanup runs after the command completes.
type Builder func(opts Options) (*Services, func(), error)

// errNotConfigured is returned when a command runs without its services.
var errNotConfigured = errors.New("services not configured")

var (
	opts        Options
	appServices *Services
	builder     Builder
	cleanup     func()
)

var rootCmd = &cobra.Command{
	Use:   "trawl",
	Short: "Streaming torrent search",
	Long: `trawl searches a torrent-search backend and shows results while they
are still arriving. Run without a subcommand to open the terminal UI.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: teardown,
	RunE:              runTUI,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&opts.Server, "server", "", "backend base URL (overrides config)")
	flags.StringVar(&opts.ConfigDir, "config-dir", "", "configuration directory (default ~/.trawl)")
}

// SetBuilder registers the function that wires services from flags.
func SetBuilder(b Builder) {
	builder = b
}

// SetServices installs prebuilt services, bypassing the builder.
func SetServices(s *Services) {
	appServices = s
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setup(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(opts.Verbose)
	if appServices != nil || builder == nil {
		return nil
	}

	built, done, err := builder(opts)
	if err != nil {
		return err
	}
	appServices = built
	cleanup = done
	return nil
}

func teardown(_ *cobra.Command, _ []string) {
	if cleanup != nil {
		cleanup()
		cleanup = nil
	}
}

// requireServices returns the wired services or errNotConfigured.
func requireServices() (*Services, error) {
	if appServices == nil {
		return nil, errNotConfigured
	}
	return appServices, nil
}

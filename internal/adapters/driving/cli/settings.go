package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/trawl/internal/core/domain"
	"github.com/custodia-labs/trawl/internal/core/ports/driving"
)

// Keys accepted by "settings set".
const (
	setKeyServer  = "server"
	setKeyToken   = "token"
	setKeyRender  = "render-mode"
	setKeyPersist = "persist"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the backend connection, result list rendering and
session persistence.

Use subcommands to change a single value or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a single setting",
	Long: `Change a single setting.

Keys:
  server       backend base URL, e.g. http://localhost:8000
  token        session token sent as the session_token cookie
  render-mode  auto, windowed or plain
  persist      true to restore the last search on the next start`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func settingsService() (driving.SettingsService, error) {
	svc, err := requireServices()
	if err != nil || svc.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	return svc.Settings, nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}

	settings, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Server]")
	if settings.Server.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.Server.BaseURL)
	} else {
		cmd.Println("  Base URL: (not set)")
	}
	if settings.Server.SessionToken != "" {
		cmd.Printf("  Session Token: %s\n", maskToken(settings.Server.SessionToken))
	} else {
		cmd.Println("  Session Token: (not set)")
	}
	cmd.Printf("  Requests/sec: %g\n", settings.Server.RequestsPerSecond)
	cmd.Println()

	cmd.Println("[UI]")
	cmd.Printf("  Render Mode: %s\n", settings.UI.RenderMode.Description())
	cmd.Printf("  Row Estimate: %d lines\n", settings.UI.RowEstimate)
	cmd.Printf("  Overscan: %d rows\n", settings.UI.Overscan)
	cmd.Println()

	cmd.Println("[Session]")
	cmd.Printf("  Persist: %t\n", settings.Session.Persist)
	cmd.Printf("  History Size: %d\n", settings.Session.HistorySize)
	cmd.Println()

	cmd.Printf("Config file: %s\n", svc.ConfigPath())
	if err := svc.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}
	current, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	key, value := strings.ToLower(args[0]), strings.TrimSpace(args[1])
	switch key {
	case setKeyServer:
		err = svc.SetServer(value, current.Server.SessionToken)
	case setKeyToken:
		err = svc.SetServer(current.Server.BaseURL, value)
		value = maskToken(value)
	case setKeyRender:
		err = svc.SetRenderMode(domain.RenderMode(strings.ToLower(value)))
	case setKeyPersist:
		var persist bool
		persist, err = strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: persist must be true or false", domain.ErrInvalidInput)
		}
		err = svc.SetPersistSession(persist)
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, args[0])
	}
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s to %s\n", key, value)
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}
	current, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("trawl Settings Wizard")
	cmd.Println("=====================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	// Step 1: backend
	cmd.Println("Step 1: Backend")
	cmd.Println("---------------")
	cmd.Printf("Base URL [%s]: ", current.Server.BaseURL)
	baseURL := readLine(reader)
	if baseURL == "" {
		baseURL = current.Server.BaseURL
	}
	cmd.Print("Session token (leave empty to keep): ")
	token := readPassword(cmd.InOrStdin(), reader)
	cmd.Println()
	if token == "" {
		token = current.Server.SessionToken
	}
	if err := svc.SetServer(baseURL, token); err != nil {
		return fmt.Errorf("failed to set server: %w", err)
	}
	cmd.Printf("Backend set to: %s\n\n", baseURL)

	// Step 2: rendering
	cmd.Println("Step 2: Result List Rendering")
	cmd.Println("-----------------------------")
	modes := domain.AllRenderModes()
	defaultIdx := 1
	for i, mode := range modes {
		if mode == current.UI.RenderMode {
			defaultIdx = i + 1
		}
		cmd.Printf("  %d. %s\n", i+1, mode.Description())
	}
	cmd.Printf("\nEnter choice [%d]: ", defaultIdx)
	mode := modes[parseChoice(readLine(reader), len(modes), defaultIdx)-1]
	if err := svc.SetRenderMode(mode); err != nil {
		return fmt.Errorf("failed to set render mode: %w", err)
	}
	cmd.Printf("Render mode set to: %s\n\n", mode.Description())

	// Step 3: persistence
	cmd.Println("Step 3: Session Persistence")
	cmd.Println("---------------------------")
	cmd.Printf("Restore the last search on the next start? [y/N]: ")
	persist := strings.HasPrefix(strings.ToLower(readLine(reader)), "y")
	if err := svc.SetPersistSession(persist); err != nil {
		return fmt.Errorf("failed to set session persistence: %w", err)
	}
	cmd.Println()

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := svc.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

// Helper functions.

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal, otherwise a line
// from reader.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

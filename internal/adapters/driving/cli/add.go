package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/trawl/internal/core/domain"
)

var addCmd = &cobra.Command{
	Use:   "add [magnet]",
	Short: "Send a magnet link to the downloader",
	Long: `Hands a magnet link to the backend's downloader. The call returns as
soon as the backend accepts it; download progress is not tracked.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	svc, err := requireServices()
	if err != nil {
		return err
	}
	if svc.Actions == nil {
		return errors.New("result actions not configured")
	}

	magnet := strings.TrimSpace(args[0])
	if magnet == "" {
		return fmt.Errorf("%w: magnet link is empty", domain.ErrInvalidInput)
	}

	record := &domain.ResultRecord{Title: magnet, MagnetURI: magnet}
	if err := svc.Actions.Download(cmd.Context(), record); err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	cmd.Println("Sent to downloader.")
	return nil
}

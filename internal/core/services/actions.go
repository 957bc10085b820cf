package services

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/custodia-labs/trawl/internal/core/domain"
	"github.com/custodia-labs/trawl/internal/core/ports/driven"
	"github.com/custodia-labs/trawl/internal/core/ports/driving"
	"github.com/custodia-labs/trawl/internal/logger"
)

// Operating system identifiers.
const (
	osDarwin  = "darwin"
	osLinux   = "linux"
	osWindows = "windows"
)

// Ensure ResultActionService implements the interface.
var _ driving.ResultActionService = (*ResultActionService)(nil)

// ResultActionService provides actions on search results.
type ResultActionService struct {
	backend driven.TorrentBackend

	// Replaced in tests.
	copyText func(string) error
	open     func(string) error
}

// NewResultActionService creates a new result action service.
// backend may be nil, in which case Download fails and magnets are only
// taken from the record itself.
func NewResultActionService(backend driven.TorrentBackend) *ResultActionService {
	return &ResultActionService{
		backend:  backend,
		copyText: clipboard.WriteAll,
		open:     openURL,
	}
}

// Download sends the result's magnet to the download engine.
func (s *ResultActionService) Download(ctx context.Context, result *domain.ResultRecord) error {
	if s.backend == nil {
		return fmt.Errorf("download: %w: no backend configured", domain.ErrNotActionable)
	}
	magnet, err := s.magnetFor(ctx, result)
	if err != nil {
		return err
	}
	logger.Debug("Adding magnet for %q", result.Title)
	if err := s.backend.AddMagnet(ctx, magnet); err != nil {
		return fmt.Errorf("add torrent: %w", err)
	}
	return nil
}

// CopyMagnet copies the result's magnet link to the system clipboard.
func (s *ResultActionService) CopyMagnet(ctx context.Context, result *domain.ResultRecord) error {
	magnet, err := s.magnetFor(ctx, result)
	if err != nil {
		return err
	}
	if err := s.copyText(magnet); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

// OpenDetails opens the result's tracker page in the default browser.
func (s *ResultActionService) OpenDetails(_ context.Context, result *domain.ResultRecord) error {
	if result == nil {
		return fmt.Errorf("result is nil")
	}
	if !strings.HasPrefix(result.Details, "http://") && !strings.HasPrefix(result.Details, "https://") {
		return fmt.Errorf("open details: %w", domain.ErrNotActionable)
	}
	return s.open(result.Details)
}

// magnetFor returns the record's own magnet, or asks the backend to
// resolve one from the details page.
func (s *ResultActionService) magnetFor(ctx context.Context, result *domain.ResultRecord) (string, error) {
	if result == nil {
		return "", fmt.Errorf("result is nil")
	}
	if m := result.Magnet(); m != "" {
		return m, nil
	}
	if result.Details == "" || s.backend == nil {
		return "", domain.ErrNotActionable
	}

	logger.Debug("Resolving magnet via backend for %q", result.Title)
	m, err := s.backend.ResolveMagnet(ctx, *result)
	if err != nil {
		if errors.Is(err, domain.ErrMagnetUnavailable) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", domain.ErrMagnetUnavailable, err)
	}
	if m == "" {
		return "", domain.ErrMagnetUnavailable
	}
	return m, nil
}

// openURL opens a URL using the system default handler.
func openURL(url string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case osDarwin:
		cmd = exec.Command("open", url)
	case osLinux:
		cmd = exec.Command("xdg-open", url)
	case osWindows:
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}

package driving

import (
	"context"

	"github.com/custodia-labs/trawl/internal/core/domain"
)

// ResultActionService provides actions on search results for external actors.
// This is used by TUI, CLI, and MCP adapters.
type ResultActionService interface {
	// Download sends the result's magnet to the download engine.
	Download(ctx context.Context, result *domain.ResultRecord) error

	// CopyMagnet copies the result's magnet link to the system clipboard.
	CopyMagnet(ctx context.Context, result *domain.ResultRecord) error

	// OpenDetails opens the result's tracker page in the default browser.
	OpenDetails(ctx context.Context, result *domain.ResultRecord) error
}

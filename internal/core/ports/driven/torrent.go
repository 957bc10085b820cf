package driven

import (
	"context"

	"github.com/custodia-labs/trawl/internal/core/domain"
)

// TorrentBackend performs side effects on a selected result.
type TorrentBackend interface {
	// AddMagnet hands a magnet link to the download engine.
	AddMagnet(ctx context.Context, magnet string) error

	// ResolveMagnet asks the backend to fetch a magnet for a record that
	// only carries a details link.
	ResolveMagnet(ctx context.Context, record domain.ResultRecord) (string, error)
}

package driven

import (
	"context"
	"io"
)

// SearchStreamSource opens the backend's result stream.
// The returned body is newline-delimited JSON, one ResultRecord per line.
// Cancelling ctx aborts the transport; reads then fail.
type SearchStreamSource interface {
	OpenSearchStream(ctx context.Context, query string) (io.ReadCloser, error)
}

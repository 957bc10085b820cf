package services

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/custodia-labs/trawl/internal/core/domain"
	"github.com/custodia-labs/trawl/internal/core/ports/driven"
	"github.com/custodia-labs/trawl/internal/core/ports/driving"
	"github.com/custodia-labs/trawl/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// eventBuffer bounds how far the reader may run ahead of the consumer.
const eventBuffer = 64

// maxLineSize is the longest NDJSON line decoded. Longer lines are
// discarded up to their terminator and counted as skipped.
const maxLineSize = 1 << 20

// SearchService ingests the backend's result stream.
type SearchService struct {
	source driven.SearchStreamSource

	mu      sync.Mutex
	current domain.SearchSession
	cancel  context.CancelFunc
	loading bool
}

// NewSearchService creates a new search service.
func NewSearchService(source driven.SearchStreamSource) *SearchService {
	return &SearchService{source: source}
}

// Start begins a new ingestion run, cancelling any run in flight. The
// stream is opened in the background; an open failure arrives as the
// terminal event.
func (s *SearchService) Start(
	ctx context.Context, query string,
) (domain.SearchSession, <-chan domain.StreamEvent, error) {
	logger.Section("Search Stream")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, no request issued")
		return "", nil, domain.ErrEmptyQuery
	}

	runCtx, cancel := context.WithCancel(ctx)
	session := domain.SearchSession(uuid.NewString())

	s.mu.Lock()
	if s.cancel != nil {
		logger.Debug("Cancelling superseded session %s", s.current)
		s.cancel()
	}
	s.current = session
	s.cancel = cancel
	s.loading = true
	s.mu.Unlock()

	events := make(chan domain.StreamEvent, eventBuffer)
	go s.run(runCtx, session, query, events)

	return session, events, nil
}

// Cancel aborts the active run. Loading is cleared immediately, before the
// reader observes the cancellation.
func (s *SearchService) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		logger.Debug("Cancelling session %s", s.current)
		s.cancel()
		s.cancel = nil
	}
	s.current = ""
	s.loading = false
}

// IsCurrent reports whether session is the active run's token.
func (s *SearchService) IsCurrent(session domain.SearchSession) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return session != "" && session == s.current
}

// Loading reports whether the active run is still streaming.
func (s *SearchService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// finish clears loading if session is still current.
func (s *SearchService) finish(session domain.SearchSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == session {
		s.loading = false
	}
}

// run opens the stream and reads it. Opening happens off the caller's
// goroutine so Start returns as soon as the token is replaced.
func (s *SearchService) run(
	ctx context.Context,
	session domain.SearchSession,
	query string,
	events chan<- domain.StreamEvent,
) {
	if ctx.Err() != nil {
		s.end(ctx, session, events, ctx.Err())
		return
	}
	body, err := s.source.OpenSearchStream(ctx, query)
	if err != nil {
		logger.Warn("Opening stream failed: %v", err)
		s.end(ctx, session, events, streamError(ctx, err))
		return
	}
	s.read(ctx, session, body, events)
}

// end delivers the terminal event and closes events.
func (s *SearchService) end(
	ctx context.Context,
	session domain.SearchSession,
	events chan<- domain.StreamEvent,
	err error,
) {
	defer close(events)
	s.finish(session)

	// The terminal event is best effort once the consumer has gone away.
	select {
	case events <- domain.StreamEvent{Session: session, Done: true, Err: err}:
	default:
		if ctx.Err() == nil {
			events <- domain.StreamEvent{Session: session, Done: true, Err: err}
		}
	}
}

// read decodes body line by line until EOF, transport failure or cancellation.
func (s *SearchService) read(
	ctx context.Context,
	session domain.SearchSession,
	body io.ReadCloser,
	events chan<- domain.StreamEvent,
) {
	defer body.Close()

	// Closing the body unblocks a pending read when the run is cancelled.
	stop := context.AfterFunc(ctx, func() { _ = body.Close() })
	defer stop()

	var (
		seq     int64
		skipped int
		err     error
	)

	reader := bufio.NewReader(body)
	for ctx.Err() == nil {
		var (
			line     []byte
			oversize bool
		)
		line, oversize, err = readLine(reader)
		if oversize {
			skipped++
			logger.Debug("Skipping line %d: longer than %d bytes", seq+int64(skipped), maxLineSize)
		} else if len(line) > 0 {
			record, decodeErr := decodeRecord(line)
			if decodeErr != nil {
				skipped++
				logger.Debug("Skipping line %d: %v", seq+int64(skipped), decodeErr)
			} else {
				record.Seq = seq
				seq++
				if ctx.Err() != nil {
					break
				}
				select {
				case events <- domain.StreamEvent{Session: session, Record: record}:
				case <-ctx.Done():
					err = ctx.Err()
				}
			}
		}
		if err != nil {
			break
		}
	}

	if errors.Is(err, io.EOF) {
		err = nil
	}
	if ctx.Err() != nil {
		err = ctx.Err()
	} else if err != nil {
		err = streamError(ctx, err)
	}

	logger.Debug("Session %s ended: %d records, %d skipped, err=%v", session, seq, skipped, err)
	s.end(ctx, session, events, err)
}

// readLine returns the next line without its terminator or surrounding
// space. A final line with no trailing newline is still returned; the
// following call reports io.EOF. A line longer than maxLineSize is read
// through to its terminator and reported as oversize with no content.
func readLine(r *bufio.Reader) ([]byte, bool, error) {
	var (
		buf      []byte
		oversize bool
	)
	for {
		chunk, isPrefix, err := r.ReadLine()
		if !oversize {
			buf = append(buf, chunk...)
			if len(buf) > maxLineSize {
				oversize, buf = true, nil
			}
		}
		if err != nil || !isPrefix {
			if oversize {
				return nil, true, err
			}
			return trimLine(buf), false, err
		}
	}
}

func trimLine(b []byte) []byte {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return nil
	}
	return []byte(s)
}

// decodeRecord parses one NDJSON line. Only JSON objects are records.
func decodeRecord(line []byte) (domain.ResultRecord, error) {
	if len(line) == 0 || line[0] != '{' {
		return domain.ResultRecord{}, fmt.Errorf("%w: not a JSON object", domain.ErrMalformedRecord)
	}
	var record domain.ResultRecord
	if err := json.Unmarshal(line, &record); err != nil {
		return domain.ResultRecord{}, fmt.Errorf("%w: %v", domain.ErrMalformedRecord, err)
	}
	return record, nil
}

// streamError maps a transport failure onto the domain error taxonomy.
func streamError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, domain.ErrStreamAborted) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrStreamAborted, err)
}

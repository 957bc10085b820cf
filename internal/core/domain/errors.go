package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyQuery indicates a search was requested with a blank query.
	// No request is made and no state changes.
	ErrEmptyQuery = errors.New("empty query")

	// Stream Errors.

	// ErrStreamAborted indicates the result stream could not be opened
	// or died before the server closed it.
	ErrStreamAborted = errors.New("stream ended abnormally")

	// ErrMalformedRecord indicates a single stream line failed to decode.
	// The line is skipped; the stream continues.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrStaleSession indicates an event belongs to a superseded search.
	ErrStaleSession = errors.New("stale search session")

	// Action Errors.

	// ErrNotActionable indicates a record carries no magnet, info hash or details link.
	ErrNotActionable = errors.New("record is not actionable")

	// ErrMagnetUnavailable indicates the backend could not resolve a magnet for a record.
	ErrMagnetUnavailable = errors.New("magnet unavailable")

	// ErrBackendUnavailable indicates a backend request failed or returned an error status.
	ErrBackendUnavailable = errors.New("backend request failed")

	// ErrUnauthorized indicates the backend rejected the session token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRateLimited indicates the backend rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)

// Package api provides the HTTP adapter for the torrent search backend.
//
// The backend exposes three endpoints under /api/torrent:
//
//   - POST /search?query=<q>  streams NDJSON results
//   - POST /add               {"magnet": "..."} queues a download
//   - POST /magnet            {"data": <record>} resolves a magnet link
//
// Requests authenticate with the session_token cookie issued at sign-in.
package api

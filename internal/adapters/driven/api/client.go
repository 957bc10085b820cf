package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/custodia-labs/trawl/internal/core/domain"
	"github.com/custodia-labs/trawl/internal/core/ports/driven"
	"github.com/custodia-labs/trawl/internal/logger"
)

// Ensure Client implements the interfaces.
var (
	_ driven.SearchStreamSource = (*Client)(nil)
	_ driven.TorrentBackend     = (*Client)(nil)
)

// Default configuration values.
const (
	DefaultRequestTimeout = 30 * time.Second
	SessionCookie         = "session_token"
)

// Endpoint paths.
const (
	pathSearch = "/api/torrent/search"
	pathAdd    = "/api/torrent/add"
	pathMagnet = "/api/torrent/magnet"
)

// Config holds configuration for the backend client.
type Config struct {
	// BaseURL is the backend root, e.g. http://localhost:8000.
	BaseURL string

	// SessionToken is sent as the session_token cookie.
	SessionToken string

	// RequestsPerSecond paces outgoing calls. Zero disables pacing.
	RequestsPerSecond float64

	// RequestTimeout bounds non-streaming calls (default: 30s).
	// Search streams are bounded only by their context.
	RequestTimeout time.Duration

	// HTTPClient overrides the transport. Its Timeout must be zero or
	// streams will be cut off.
	HTTPClient *http.Client
}

// Client talks to the torrent search backend.
type Client struct {
	client  *http.Client
	baseURL string
	token   string
	timeout time.Duration
	limiter *RateLimiter
}

// addRequest is the /api/torrent/add request format.
type addRequest struct {
	Magnet string `json:"magnet"`
}

// magnetRequest is the /api/torrent/magnet request format.
type magnetRequest struct {
	Data domain.ResultRecord `json:"data"`
}

// magnetResponse is the /api/torrent/magnet response format.
type magnetResponse struct {
	Magnet string `json:"magnet"`
}

// errorResponse is the backend's error body.
type errorResponse struct {
	Detail string `json:"detail"`
}

// NewClient creates a new backend client.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: base URL %q", domain.ErrInvalidInput, cfg.BaseURL)
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		client:  httpClient,
		baseURL: base,
		token:   cfg.SessionToken,
		timeout: cfg.RequestTimeout,
		limiter: NewRateLimiter(cfg.RequestsPerSecond),
	}, nil
}

// OpenSearchStream starts a search and returns the NDJSON body.
// The caller owns the body; cancelling ctx aborts it.
func (c *Client) OpenSearchStream(ctx context.Context, query string) (io.ReadCloser, error) {
	endpoint := c.baseURL + pathSearch + "?" + url.Values{"query": {query}}.Encode()
	logger.Debug("POST %s", endpoint)

	req, err := c.newRequest(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/x-ndjson")

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// AddMagnet queues magnet on the backend's download engine.
func (c *Client) AddMagnet(ctx context.Context, magnet string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.postJSON(ctx, pathAdd, addRequest{Magnet: magnet})
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// ResolveMagnet asks the backend to fetch a magnet for record.
func (c *Client) ResolveMagnet(ctx context.Context, record domain.ResultRecord) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.postJSON(ctx, pathMagnet, magnetRequest{Data: record})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out magnetResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode magnet response: %w", err)
	}
	if out.Magnet == "" {
		return "", domain.ErrMagnetUnavailable
	}
	return out.Magnet, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	logger.Debug("POST %s%s", c.baseURL, path)

	req, err := c.newRequest(ctx, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(ctx, req)
}

func (c *Client) newRequest(ctx context.Context, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.token != "" {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: c.token})
	}
	return req, nil
}

// do waits for the limiter, sends req and maps non-2xx statuses onto
// domain errors. On success the caller must close the body.
func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	defer resp.Body.Close()
	detail := readDetail(resp.Body)
	logger.Warn("%s %s: %d %s", req.Method, req.URL.Path, resp.StatusCode, detail)

	switch {
	case c.limiter.Observe(resp):
		return nil, fmt.Errorf("%w: %s", domain.ErrRateLimited, detail)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnauthorized, detail)
	default:
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrBackendUnavailable, resp.StatusCode, detail)
	}
}

// readDetail extracts FastAPI's {"detail": ...} or falls back to the raw body.
func readDetail(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, 4096))
	var e errorResponse
	if json.Unmarshal(data, &e) == nil && e.Detail != "" {
		return e.Detail
	}
	return strings.TrimSpace(string(data))
}

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/trawl/internal/core/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL + "/", SessionToken: "tok"})
	require.NoError(t, err)
	return c
}

func TestNewClient_InvalidBaseURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8000", "://x"} {
		_, err := NewClient(Config{BaseURL: raw})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, raw)
	}
}

func TestClient_OpenSearchStream(t *testing.T) {
	var gotQuery, gotCookie, gotMethod, gotAccept string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.Query().Get("query")
		gotAccept = r.Header.Get("Accept")
		if ck, err := r.Cookie(SessionCookie); err == nil {
			gotCookie = ck.Value
		}
		assert.Equal(t, pathSearch, r.URL.Path)
		_, _ = io.WriteString(w, `{"Title":"a"}`+"\n"+`{"Title":"b"}`+"\n")
	})

	body, err := c.OpenSearchStream(context.Background(), "ubuntu 24.04 & more")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "ubuntu 24.04 & more", gotQuery)
	assert.Equal(t, "tok", gotCookie)
	assert.Equal(t, "application/x-ndjson", gotAccept)
}

func TestClient_OpenSearchStream_StreamsBeforeCompletion(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"Title":"early"}`+"\n")
		w.(http.Flusher).Flush()
		<-release
	})
	defer close(release)

	body, err := c.OpenSearchStream(context.Background(), "q")
	require.NoError(t, err)
	defer body.Close()

	buf := make([]byte, len(`{"Title":"early"}`+"\n"))
	_, err = io.ReadFull(body, buf)
	require.NoError(t, err)
	assert.Equal(t, `{"Title":"early"}`+"\n", string(buf))
}

func TestClient_OpenSearchStream_CancelAbortsBody(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "\n")
		w.(http.Flusher).Flush()
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	body, err := c.OpenSearchStream(ctx, "q")
	require.NoError(t, err)
	defer body.Close()

	cancel()
	done := make(chan error, 1)
	go func() {
		_, err := io.ReadAll(body)
		done <- err
	}()

	select {
	case err := <-done:
		assert.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("read did not abort after cancel")
	}
}

func TestClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, `{"detail":"Not authenticated"}`, domain.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, ``, domain.ErrUnauthorized},
		{"rate limited", http.StatusTooManyRequests, ``, domain.ErrRateLimited},
		{"server error", http.StatusInternalServerError, `{"detail":"jackett down"}`, domain.ErrBackendUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set(HeaderRetryAfter, "0")
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.OpenSearchStream(context.Background(), "q")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_ErrorDetailInMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"detail":"jackett down"}`)
	})

	err := c.AddMagnet(context.Background(), "magnet:?x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jackett down")
}

func TestClient_AddMagnet(t *testing.T) {
	var got addRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathAdd, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"message":"Magnet Added"}`)
	})

	require.NoError(t, c.AddMagnet(context.Background(), "magnet:?xt=urn:btih:abc"))
	assert.Equal(t, "magnet:?xt=urn:btih:abc", got.Magnet)
}

func TestClient_ResolveMagnet(t *testing.T) {
	var got magnetRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, pathMagnet, r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = io.WriteString(w, `{"magnet":"magnet:?xt=urn:btih:resolved"}`)
	})

	m, err := c.ResolveMagnet(context.Background(), domain.ResultRecord{Title: "t", Details: "https://tracker/1"})

	require.NoError(t, err)
	assert.Equal(t, "magnet:?xt=urn:btih:resolved", m)
	assert.Equal(t, "https://tracker/1", got.Data.Details)
}

func TestClient_ResolveMagnet_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"magnet":null}`)
	})

	_, err := c.ResolveMagnet(context.Background(), domain.ResultRecord{Details: "https://x"})

	assert.ErrorIs(t, err, domain.ErrMagnetUnavailable)
}

func TestClient_NoCookieWithoutToken(t *testing.T) {
	var hadCookie bool
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		_, err := r.Cookie(SessionCookie)
		hadCookie = err == nil
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	require.NoError(t, c.AddMagnet(context.Background(), "m"))

	assert.False(t, hadCookie)
}

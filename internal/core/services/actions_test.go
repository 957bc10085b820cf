package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/trawl/internal/core/domain"
)

// mockTorrentBackend is a test double for driven.TorrentBackend.
type mockTorrentBackend struct {
	added      []string
	addErr     error
	resolved   string
	resolveErr error
	resolveFor []domain.ResultRecord
}

func (m *mockTorrentBackend) AddMagnet(_ context.Context, magnet string) error {
	m.added = append(m.added, magnet)
	return m.addErr
}

func (m *mockTorrentBackend) ResolveMagnet(_ context.Context, r domain.ResultRecord) (string, error) {
	m.resolveFor = append(m.resolveFor, r)
	return m.resolved, m.resolveErr
}

func newTestActions(backend *mockTorrentBackend) (*ResultActionService, *[]string, *[]string) {
	var copied, opened []string
	var svc *ResultActionService
	if backend != nil {
		svc = NewResultActionService(backend)
	} else {
		svc = NewResultActionService(nil)
	}
	svc.copyText = func(s string) error { copied = append(copied, s); return nil }
	svc.open = func(s string) error { opened = append(opened, s); return nil }
	return svc, &copied, &opened
}

func TestResultActionService_Download_UsesRecordMagnet(t *testing.T) {
	backend := &mockTorrentBackend{}
	svc, _, _ := newTestActions(backend)

	err := svc.Download(context.Background(), &domain.ResultRecord{InfoHash: "ABC"})

	require.NoError(t, err)
	assert.Equal(t, []string{"magnet:?xt=urn:btih:abc"}, backend.added)
	assert.Empty(t, backend.resolveFor)
}

func TestResultActionService_Download_ResolvesFromDetails(t *testing.T) {
	backend := &mockTorrentBackend{resolved: "magnet:?xt=urn:btih:resolved"}
	svc, _, _ := newTestActions(backend)
	rec := &domain.ResultRecord{Title: "t", Details: "https://tracker/t/1"}

	require.NoError(t, svc.Download(context.Background(), rec))

	require.Len(t, backend.resolveFor, 1)
	assert.Equal(t, "https://tracker/t/1", backend.resolveFor[0].Details)
	assert.Equal(t, []string{"magnet:?xt=urn:btih:resolved"}, backend.added)
}

func TestResultActionService_Download_Failures(t *testing.T) {
	t.Run("not actionable", func(t *testing.T) {
		svc, _, _ := newTestActions(&mockTorrentBackend{})
		err := svc.Download(context.Background(), &domain.ResultRecord{Title: "bare"})
		assert.ErrorIs(t, err, domain.ErrNotActionable)
	})

	t.Run("no backend", func(t *testing.T) {
		svc, _, _ := newTestActions(nil)
		err := svc.Download(context.Background(), &domain.ResultRecord{InfoHash: "a"})
		assert.ErrorIs(t, err, domain.ErrNotActionable)
	})

	t.Run("resolve fails", func(t *testing.T) {
		svc, _, _ := newTestActions(&mockTorrentBackend{resolveErr: errors.New("502")})
		err := svc.Download(context.Background(), &domain.ResultRecord{Details: "https://x"})
		assert.ErrorIs(t, err, domain.ErrMagnetUnavailable)
	})

	t.Run("resolve returns nothing", func(t *testing.T) {
		svc, _, _ := newTestActions(&mockTorrentBackend{})
		err := svc.Download(context.Background(), &domain.ResultRecord{Details: "https://x"})
		assert.ErrorIs(t, err, domain.ErrMagnetUnavailable)
	})

	t.Run("add fails", func(t *testing.T) {
		boom := errors.New("engine offline")
		svc, _, _ := newTestActions(&mockTorrentBackend{addErr: boom})
		err := svc.Download(context.Background(), &domain.ResultRecord{MagnetURI: "magnet:?x"})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("nil result", func(t *testing.T) {
		svc, _, _ := newTestActions(&mockTorrentBackend{})
		assert.Error(t, svc.Download(context.Background(), nil))
	})
}

func TestResultActionService_CopyMagnet(t *testing.T) {
	svc, copied, _ := newTestActions(nil)

	require.NoError(t, svc.CopyMagnet(context.Background(), &domain.ResultRecord{MagnetURI: "magnet:?xt=urn:btih:m"}))
	assert.Equal(t, []string{"magnet:?xt=urn:btih:m"}, *copied)

	err := svc.CopyMagnet(context.Background(), &domain.ResultRecord{Details: "https://x"})
	assert.ErrorIs(t, err, domain.ErrNotActionable)
}

func TestResultActionService_CopyMagnet_ClipboardError(t *testing.T) {
	svc, _, _ := newTestActions(nil)
	svc.copyText = func(string) error { return errors.New("no xclip") }

	err := svc.CopyMagnet(context.Background(), &domain.ResultRecord{InfoHash: "a"})

	assert.ErrorContains(t, err, "copy to clipboard")
}

func TestResultActionService_OpenDetails(t *testing.T) {
	svc, _, opened := newTestActions(nil)

	require.NoError(t, svc.OpenDetails(context.Background(), &domain.ResultRecord{Details: "https://tracker/t/9"}))
	assert.Equal(t, []string{"https://tracker/t/9"}, *opened)

	assert.ErrorIs(t, svc.OpenDetails(context.Background(), &domain.ResultRecord{Details: "file:///etc/passwd"}), domain.ErrNotActionable)
	assert.ErrorIs(t, svc.OpenDetails(context.Background(), &domain.ResultRecord{}), domain.ErrNotActionable)
	assert.Error(t, svc.OpenDetails(context.Background(), nil))
}

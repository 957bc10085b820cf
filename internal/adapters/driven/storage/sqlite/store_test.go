package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/trawl/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()

	s, err := NewStore(dir)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, filepath.Join(dir, DatabaseFile), s.Path())
	assert.FileExists(t, s.Path())
}

func TestNewStore_MigrationsAreIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, s1.SessionStore().Set("query", "ubuntu"))
	require.NoError(t, s1.Close())

	s2, err := NewStore(dir)
	require.NoError(t, err)
	defer s2.Close()

	raw, ok := s2.SessionStore().Get("query")
	require.True(t, ok)
	assert.JSONEq(t, `"ubuntu"`, string(raw.([]byte)))

	var version int
	require.NoError(t, s2.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)
}

func TestSessionStore_GetMissing(t *testing.T) {
	store := newTestStore(t).SessionStore()

	val, ok := store.Get("nope")

	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestSessionStore_SetOverwrites(t *testing.T) {
	store := newTestStore(t).SessionStore()

	require.NoError(t, store.Set("scroll_offset", 10))
	require.NoError(t, store.Set("scroll_offset", 42))

	raw, ok := store.Get("scroll_offset")
	require.True(t, ok)
	assert.Equal(t, "42", string(raw.([]byte)))
}

func TestSessionStore_SortSpecRoundTrip(t *testing.T) {
	store := newTestStore(t).SessionStore()
	spec := domain.SortSpec{Key: domain.SortBySize, Direction: domain.SortAsc}

	require.NoError(t, store.Set("sort", spec))

	raw, ok := store.Get("sort")
	require.True(t, ok)
	var got domain.SortSpec
	require.NoError(t, json.Unmarshal(raw.([]byte), &got))
	assert.Equal(t, spec, got)
}

func TestSessionStore_LargeValuesAreCompressed(t *testing.T) {
	s := newTestStore(t)
	store := s.SessionStore()

	results := make([]domain.ResultRecord, 200)
	for i := range results {
		results[i] = domain.ResultRecord{
			Title:   strings.Repeat("ubuntu-24.04-desktop-amd64 ", 3),
			Tracker: "1337x",
			Details: "https://example.org/torrent/1",
			Seq:     int64(i),
		}
	}
	require.NoError(t, store.Set("results", results))

	var encoding string
	var stored []byte
	require.NoError(t, s.db.QueryRow(
		"SELECT encoding, value FROM session_state WHERE key = 'results'",
	).Scan(&encoding, &stored))
	assert.Equal(t, encodingZstd, encoding)

	raw, ok := store.Get("results")
	require.True(t, ok)
	assert.Less(t, len(stored), len(raw.([]byte)))

	var got []domain.ResultRecord
	require.NoError(t, json.Unmarshal(raw.([]byte), &got))
	assert.Equal(t, results, got)
}

func TestSessionStore_UnmarshallableValue(t *testing.T) {
	store := newTestStore(t).SessionStore()

	assert.Error(t, store.Set("bad", make(chan int)))
}

func TestDecodeValue_UnknownEncoding(t *testing.T) {
	_, err := decodeValue([]byte("x"), "gzip")

	assert.Error(t, err)
}

func TestHistoryStore_RecentOrderAndDedup(t *testing.T) {
	ctx := context.Background()
	h := newTestStore(t).HistoryStore(0)

	for _, q := range []string{"ubuntu", "debian", "Ubuntu Server", "ubuntu"} {
		require.NoError(t, h.Add(ctx, q))
	}

	all, err := h.Recent(ctx, "", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"ubuntu", "Ubuntu Server", "debian"}, all)

	matching, err := h.Recent(ctx, "UBU", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"ubuntu", "Ubuntu Server"}, matching)

	limited, err := h.Recent(ctx, "", 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"ubuntu"}, limited)
}

func TestHistoryStore_PrefixIsLiteral(t *testing.T) {
	ctx := context.Background()
	h := newTestStore(t).HistoryStore(0)

	require.NoError(t, h.Add(ctx, "100% legit"))
	require.NoError(t, h.Add(ctx, "1000 movies"))
	require.NoError(t, h.Add(ctx, "a_b"))
	require.NoError(t, h.Add(ctx, "axb"))

	got, err := h.Recent(ctx, "100%", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"100% legit"}, got)

	got, err = h.Recent(ctx, "a_", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"a_b"}, got)
}

func TestHistoryStore_Prunes(t *testing.T) {
	ctx := context.Background()
	h := newTestStore(t).HistoryStore(2)

	for _, q := range []string{"one", "two", "three"} {
		require.NoError(t, h.Add(ctx, q))
	}

	got, err := h.Recent(ctx, "", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "two"}, got)
}

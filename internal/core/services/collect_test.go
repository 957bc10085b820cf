package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/trawl/internal/core/domain"
)

func TestCollectorService_Collect_SortsAllRecords(t *testing.T) {
	source := &mockStreamSource{open: bodyOf(
		`{"Title":"b","Seeders":5}` + "\n" +
			`{"Title":"a","Seeders":9}` + "\n" +
			`not json` + "\n" +
			`{"Title":"c","Seeders":5}` + "\n",
	)}
	collector := NewCollectorService(source)

	var seen []int
	got, err := collector.Collect(context.Background(), "linux", domain.DefaultSortSpec(), func(n int) {
		seen = append(seen, n)
	})

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{got[0].Title, got[1].Title, got[2].Title})
	assert.Equal(t, []int{1, 2, 3}, seen)
	assert.Equal(t, []string{"linux"}, source.queries)
}

func TestCollectorService_Collect_InvalidSpecUsesDefault(t *testing.T) {
	source := &mockStreamSource{open: bodyOf(`{"Title":"x","Seeders":1}` + "\n" + `{"Title":"y","Seeders":2}`)}

	got, err := NewCollectorService(source).Collect(context.Background(), "q", domain.SortSpec{}, nil)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "y", got[0].Title)
}

func TestCollectorService_Collect_EmptyQuery(t *testing.T) {
	source := &mockStreamSource{open: bodyOf("")}

	got, err := NewCollectorService(source).Collect(context.Background(), "  ", domain.DefaultSortSpec(), nil)

	assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	assert.Nil(t, got)
	assert.Zero(t, source.calls.Load())
}

func TestCollectorService_Collect_PartialOnAbort(t *testing.T) {
	source := &mockStreamSource{open: func(context.Context, string) (io.ReadCloser, error) {
		r := io.MultiReader(
			strings.NewReader(`{"Title":"kept"}`+"\n"),
			iotest.ErrReader(errors.New("connection reset")),
		)
		return io.NopCloser(r), nil
	}}

	got, err := NewCollectorService(source).Collect(context.Background(), "q", domain.DefaultSortSpec(), nil)

	assert.ErrorIs(t, err, domain.ErrStreamAborted)
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0].Title)
}

func TestCollectorService_Collect_OpenFailure(t *testing.T) {
	source := &mockStreamSource{open: func(context.Context, string) (io.ReadCloser, error) {
		return nil, domain.ErrUnauthorized
	}}

	got, err := NewCollectorService(source).Collect(context.Background(), "q", domain.DefaultSortSpec(), nil)

	assert.ErrorIs(t, err, domain.ErrStreamAborted)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Empty(t, got)
}

func TestCollectorService_Collect_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	source := &mockStreamSource{open: bodyOf(`{"Title":"x"}`)}

	_, err := NewCollectorService(source).Collect(ctx, "q", domain.DefaultSortSpec(), nil)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollectorService_Collect_ConcurrentCallsIndependent(t *testing.T) {
	source := &mockStreamSource{open: bodyOf(`{"Title":"x"}` + "\n" + `{"Title":"y"}`)}
	collector := NewCollectorService(source)

	type result struct {
		n   int
		err error
	}
	out := make(chan result, 2)
	for range 2 {
		go func() {
			got, err := collector.Collect(context.Background(), "q", domain.DefaultSortSpec(), nil)
			out <- result{len(got), err}
		}()
	}

	for range 2 {
		r := <-out
		require.NoError(t, r.err)
		assert.Equal(t, 2, r.n)
	}
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/trawl/internal/adapters/driven/storage/memory"
)

type failingHistory struct{}

func (failingHistory) Add(context.Context, string) error { return errors.New("locked") }
func (failingHistory) Recent(context.Context, string, int) ([]string, error) {
	return nil, errors.New("locked")
}

func TestHistoryService_RecordAndSuggest(t *testing.T) {
	ctx := context.Background()
	svc := NewHistoryService(memory.NewHistoryStore(), 2)

	require.NoError(t, svc.Record(ctx, "  ubuntu  "))
	require.NoError(t, svc.Record(ctx, "   "))
	require.NoError(t, svc.Record(ctx, "debian"))
	require.NoError(t, svc.Record(ctx, "ubuntu server"))

	got, err := svc.Suggest(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"ubuntu server", "debian"}, got)

	got, err = svc.Suggest(ctx, "ubuntu")
	require.NoError(t, err)
	assert.Equal(t, []string{"ubuntu server", "ubuntu"}, got)
}

func TestHistoryService_NilStore(t *testing.T) {
	svc := NewHistoryService(nil, 0)

	assert.NoError(t, svc.Record(context.Background(), "q"))
	got, err := svc.Suggest(context.Background(), "q")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestHistoryService_StoreError(t *testing.T) {
	svc := NewHistoryService(failingHistory{}, 5)

	assert.Error(t, svc.Record(context.Background(), "q"))
	_, err := svc.Suggest(context.Background(), "q")
	assert.Error(t, err)
}

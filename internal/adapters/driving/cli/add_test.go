package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/trawl/internal/core/domain"
)

func TestAddCmd_Use(t *testing.T) {
	assert.Equal(t, "add [magnet]", addCmd.Use)
}

func TestAdd_Sends(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	actions := appServices.Actions.(*mockActions)

	out, err := execute(t, "add", " magnet:?xt=urn:btih:abc ")

	require.NoError(t, err)
	assert.Contains(t, out, "Sent to downloader.")
	assert.Equal(t, []string{"magnet:?xt=urn:btih:abc"}, actions.downloaded)
}

func TestAdd_Empty(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "add", "  ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAdd_BackendError(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	appServices.Actions.(*mockActions).err = errors.New("backend refused")

	_, err := execute(t, "add", "magnet:?xt=urn:btih:abc")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "download failed: backend refused")
}

func TestAdd_NoActions(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	appServices.Actions = nil

	_, err := execute(t, "add", "magnet:?xt=urn:btih:abc")

	assert.EqualError(t, err, "result actions not configured")
}

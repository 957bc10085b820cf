package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/trawl/internal/adapters/driving/mcp"
)

func TestMCPCmd_Subcommands(t *testing.T) {
	require.Len(t, mcpCmd.Commands(), 1)
	assert.Equal(t, "serve", mcpCmd.Commands()[0].Name())
}

func TestMCPServeCmd_PortFlag(t *testing.T) {
	flag := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

func TestMCPServeCmd_LongDescription(t *testing.T) {
	assert.Contains(t, mcpServeCmd.Long, "search_torrents")
	assert.Contains(t, mcpServeCmd.Long, "trawl://session")
}

func TestMCPServe_MissingCollector(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	appServices.Collector = nil

	_, err := execute(t, "mcp", "serve")

	assert.ErrorIs(t, err, mcp.ErrMissingSearchService)
}

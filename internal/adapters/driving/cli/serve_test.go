package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_Use(t *testing.T) {
	assert.Equal(t, "serve", serveCmd.Use)
}

func TestServeCmd_Short(t *testing.T) {
	assert.Equal(t, "Start the MCP server", serveCmd.Short)
}

func TestServeCmd_Long(t *testing.T) {
	assert.Contains(t, serveCmd.Long, "stdio")
	assert.Contains(t, serveCmd.Long, "Claude Desktop")
	assert.Contains(t, serveCmd.Long, "--port")
}

func TestServeCmd_HasPortFlag(t *testing.T) {
	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/herring101/docs-mcp/internal/adapters/driving/mcp"
	"github.com/herring101/docs-mcp/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server for AI assistant integration.

By default, the server communicates over stdio using JSON-RPC and can be
used with Claude Desktop and other MCP-compatible AI assistants.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default, for Claude Desktop)
  docs-mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  docs-mcp serve --port 8080

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "docs": {
        "command": "/path/to/docs-mcp",
        "args": ["serve"]
      }
    }
  }`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ctx := cmd.Context()

	// Drop cached artifacts when the generator rewrites them while
	// the server is running. Watch blocks, so it runs alongside the
	// server for its lifetime.
	go func() {
		if err := artifactStore.Watch(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("artifact watch stopped: %v", err)
		}
	}()

	ports := &mcp.Ports{
		Documents: documentService,
		Grep:      grepService,
		Semantic:  semanticService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}

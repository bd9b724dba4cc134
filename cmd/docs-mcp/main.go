// Command docs-mcp maintains a local documentation library and serves
// it to AI assistants over the Model Context Protocol.
package main

import (
	"os"

	"github.com/herring101/docs-mcp/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

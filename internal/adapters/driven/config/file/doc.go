// Package file provides a TOML file-based configuration store.
// Configuration lives in ~/.docs-mcp/config.toml by default and is
// resolved into a validated domain.LibraryConfig at the boundary.
package file

// Package domain defines the core business entities for docs-mcp.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A corpus file loaded from a configured root
//   - DocumentEmbedding: A persisted path/vector pair
//   - SearchResult: A ranked semantic search hit
//   - GrepMatch: A single matching line from a text search
//   - ImportTask: A unit of fetch work within an import run
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

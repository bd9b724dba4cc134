package mcp

import (
	"github.com/herring101/docs-mcp/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Documents exposes corpus listing and retrieval.
	Documents driving.DocumentService

	// Grep provides regex search over document contents.
	Grep driving.GrepService

	// Semantic provides embedding-based search. Optional: when nil,
	// the semantic_search tool reports that embeddings are unavailable.
	Semantic driving.SemanticService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Documents == nil {
		return ErrMissingDocumentService
	}
	if p.Grep == nil {
		return ErrMissingGrepService
	}
	// Semantic is optional: it needs a reachable embedding provider.
	return nil
}

package driving

import (
	"context"

	"github.com/herring101/docs-mcp/internal/core/domain"
)

// DocumentService exposes the read-only corpus operations.
type DocumentService interface {
	// List enumerates corpus documents sorted by path, enriched with
	// generated descriptions where available.
	List(ctx context.Context) ([]domain.DocumentListing, error)

	// Get returns the full content of a document by root-relative
	// path, or domain.ErrNotFound.
	Get(ctx context.Context, path string) (string, error)
}

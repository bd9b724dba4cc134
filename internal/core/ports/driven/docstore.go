package driven

import (
	"context"

	"github.com/herring101/docs-mcp/internal/core/domain"
)

// DocumentStore locates and loads corpus documents from the configured
// document root. Implementations re-read from disk per call; there is no
// ambient mutable cache.
type DocumentStore interface {
	// List enumerates documents under the root, applying the folder and
	// extension allow-lists, sorted by root-relative path. Content is
	// loaded; corpora are small by design.
	List(ctx context.Context) ([]domain.Document, error)

	// Read loads a single document by root-relative path. Returns
	// domain.ErrNotFound when the path does not exist, is not an
	// allow-listed file, or resolves outside the root.
	Read(ctx context.Context, relPath string) (*domain.Document, error)
}

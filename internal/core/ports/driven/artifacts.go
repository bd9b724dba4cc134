package driven

import (
	"context"

	"github.com/herring101/docs-mcp/internal/core/domain"
)

// ArtifactStore persists the two generated artifacts: the descriptions
// map and the embeddings array. Both are flat JSON files, regenerated
// wholesale on each generation run.
//
// Writes must be atomic: the full new content is produced in memory and
// replaces the file in a single rename, so a crash mid-run never leaves
// a half-written artifact. Write failures wrap domain.ErrPersistence.
type ArtifactStore interface {
	// SaveDescriptions replaces the descriptions artifact, a JSON
	// object mapping root-relative path to one-line description.
	SaveDescriptions(ctx context.Context, descriptions map[string]string) error

	// LoadDescriptions loads the descriptions artifact. Returns an
	// empty map when the artifact does not exist.
	LoadDescriptions(ctx context.Context) (map[string]string, error)

	// SaveEmbeddings replaces the embeddings artifact, a JSON array of
	// path/vector entries sorted by path.
	SaveEmbeddings(ctx context.Context, embeddings []domain.DocumentEmbedding) error

	// LoadEmbeddings loads the embeddings artifact. Returns
	// domain.ErrMetadataNotGenerated when the artifact is absent or empty.
	LoadEmbeddings(ctx context.Context) ([]domain.DocumentEmbedding, error)
}

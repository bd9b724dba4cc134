package driving

import (
	"context"

	"github.com/herring101/docs-mcp/internal/core/domain"
)

// GrepService scans document contents with regular expressions.
type GrepService interface {
	// Grep compiles the pattern and scans every document line by line.
	// Case-insensitivity is applied by the compile-time flag. Returns
	// domain.ErrInvalidPattern when the pattern does not compile.
	Grep(ctx context.Context, pattern string, ignoreCase bool) (*domain.GrepResult, error)
}

// SemanticService ranks documents by embedding similarity to a query.
type SemanticService interface {
	// Search embeds the query and returns up to limit results sorted
	// by descending cosine similarity, ties broken by ascending path.
	// Returns domain.ErrMetadataNotGenerated when the embeddings
	// artifact is absent or empty.
	Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error)
}

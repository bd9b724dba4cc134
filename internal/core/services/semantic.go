package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/herring101/docs-mcp/internal/core/domain"
	"github.com/herring101/docs-mcp/internal/core/ports/driven"
	"github.com/herring101/docs-mcp/internal/core/ports/driving"
	"github.com/herring101/docs-mcp/internal/logger"
)

// Ensure SemanticService implements the interface.
var _ driving.SemanticService = (*SemanticService)(nil)

// DefaultSearchLimit is the number of results returned when the caller
// does not specify a limit.
const DefaultSearchLimit = 5

// previewLength caps the excerpt attached to a search result.
const previewLength = 200

// SemanticService ranks documents by cosine similarity between the query
// embedding and the persisted document embeddings.
type SemanticService struct {
	docStore  driven.DocumentStore
	artifacts driven.ArtifactStore
	embedding driven.EmbeddingService
}

// NewSemanticService creates a new semantic search service.
func NewSemanticService(
	docStore driven.DocumentStore,
	artifacts driven.ArtifactStore,
	embedding driven.EmbeddingService,
) *SemanticService {
	return &SemanticService{
		docStore:  docStore,
		artifacts: artifacts,
		embedding: embedding,
	}
}

// Search embeds the query and returns up to limit results sorted by
// descending similarity, ties broken by ascending path for determinism.
// Entries whose backing document has disappeared are filtered out before
// ranking and do not count against the limit.
func (s *SemanticService) Search(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if s.embedding == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	stored, err := s.artifacts.LoadEmbeddings(ctx)
	if err != nil {
		return nil, err
	}
	if len(stored) == 0 {
		return nil, domain.ErrMetadataNotGenerated
	}

	queryVec, err := s.embedding.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	descriptions, err := s.artifacts.LoadDescriptions(ctx)
	if err != nil {
		descriptions = map[string]string{}
	}

	results := make([]domain.SearchResult, 0, len(stored))
	contents := make(map[string]string, len(stored))
	for i := range stored {
		doc, err := s.docStore.Read(ctx, stored[i].Path)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Backing file disappeared since generation; skip.
				logger.Debug("Skipping stale embedding: %s", stored[i].Path)
				continue
			}
			return nil, fmt.Errorf("read %s: %w", stored[i].Path, err)
		}
		contents[stored[i].Path] = doc.Content
		results = append(results, domain.SearchResult{
			Path:        stored[i].Path,
			Score:       Similarity(queryVec, stored[i].Embedding),
			Description: descriptions[stored[i].Path],
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Path < results[j].Path
	})

	if limit > len(results) {
		limit = len(results)
	}
	results = results[:limit]

	for i := range results {
		results[i].Preview = extractPreview(contents[results[i].Path], query)
	}
	return results, nil
}

// Similarity computes cosine similarity between two vectors: the dot
// product divided by the product of magnitudes. A zero-magnitude vector
// yields 0, never a division fault. Vectors of mismatched dimensions
// score 0 rather than panicking; the artifact carries a single model's
// output so a mismatch means a stale entry.
func Similarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// extractPreview picks a short excerpt relevant to the query: the first
// substantive line containing a query word, falling back to the first
// substantive line of the document.
func extractPreview(content, query string) string {
	words := strings.Fields(strings.ToLower(query))
	lines := strings.Split(content, "\n")

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) <= 20 {
			continue
		}
		lower := strings.ToLower(trimmed)
		for _, word := range words {
			if strings.Contains(lower, word) {
				return capPreview(trimmed)
			}
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) > 20 {
			return capPreview(trimmed)
		}
	}
	return ""
}

func capPreview(line string) string {
	return truncate(line, previewLength)
}

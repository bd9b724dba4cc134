package services

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/herring101/docs-mcp/internal/core/domain"
	"github.com/herring101/docs-mcp/internal/core/ports/driven"
	"github.com/herring101/docs-mcp/internal/core/ports/driving"
	"github.com/herring101/docs-mcp/internal/logger"
)

// Ensure GeneratorService implements the interface.
var _ driving.GeneratorService = (*GeneratorService)(nil)

// maxDescriptionLength caps generated one-line descriptions.
const maxDescriptionLength = 120

// embedBatchSize is how many documents are embedded per remote call.
const embedBatchSize = 16

// GeneratorService rebuilds the descriptions and embeddings artifacts
// for the whole corpus. Descriptions use a deterministic heuristic so
// that two runs over an unchanged corpus produce identical artifacts.
type GeneratorService struct {
	docStore  driven.DocumentStore
	artifacts driven.ArtifactStore
	embedding driven.EmbeddingService
}

// NewGeneratorService creates a new metadata generator.
func NewGeneratorService(
	docStore driven.DocumentStore,
	artifacts driven.ArtifactStore,
	embedding driven.EmbeddingService,
) *GeneratorService {
	return &GeneratorService{
		docStore:  docStore,
		artifacts: artifacts,
		embedding: embedding,
	}
}

// Generate enumerates the corpus, derives a one-line description per
// document, embeds the content in path-sorted batches, and atomically
// replaces both artifacts. A document whose embedding call fails after
// retries is skipped and reported; the run continues. A persistence
// failure is fatal to the run.
func (g *GeneratorService) Generate(ctx context.Context) (*driving.GenerateReport, error) {
	if g.embedding == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	docs, err := g.docStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	// Artifact content is keyed by path, not completion order.
	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })

	report := &driving.GenerateReport{Documents: len(docs)}
	descriptions := make(map[string]string, len(docs))
	embeddings := make([]domain.DocumentEmbedding, 0, len(docs))

	for start := 0; start < len(docs); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]

		texts := make([]string, len(batch))
		for i := range batch {
			descriptions[batch[i].Path] = Describe(batch[i].Path, batch[i].Content)
			texts[i] = batch[i].Content
		}

		vectors, err := g.embedding.EmbedBatch(ctx, texts)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// Skip the batch but keep going; the report names the paths.
			for i := range batch {
				logger.Warn("Skipping %s: %v", batch[i].Path, err)
				report.Skipped = append(report.Skipped, batch[i].Path)
			}
			continue
		}

		for i := range batch {
			embeddings = append(embeddings, domain.DocumentEmbedding{
				Path:      batch[i].Path,
				Embedding: vectors[i],
			})
			report.Embedded++
		}
		logger.Debug("Embedded %d/%d documents", report.Embedded, len(docs))
	}

	if err := g.artifacts.SaveDescriptions(ctx, descriptions); err != nil {
		return nil, fmt.Errorf("save descriptions: %w", err)
	}
	if err := g.artifacts.SaveEmbeddings(ctx, embeddings); err != nil {
		return nil, fmt.Errorf("save embeddings: %w", err)
	}

	logger.Info("Generated metadata for %d documents (%d skipped)", report.Embedded, len(report.Skipped))
	return report, nil
}

// Fixed descriptions for structured file types where the first line is
// rarely informative.
var typeDescriptions = map[string]string{
	".json": "JSON data definition",
	".ts":   "TypeScript definitions",
	".tsx":  "TypeScript definitions",
	".yml":  "YAML configuration",
	".yaml": "YAML configuration",
	".toml": "TOML configuration",
}

// Describe derives a deterministic one-line description for a document:
// a fixed label for structured types, otherwise the first markdown
// heading, otherwise the first non-empty line.
func Describe(relPath, content string) string {
	if desc, ok := typeDescriptions[strings.ToLower(path.Ext(relPath))]; ok {
		return desc
	}

	var firstLine string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			return capDescription(strings.TrimSpace(strings.TrimLeft(trimmed, "# ")))
		}
		if firstLine == "" {
			firstLine = trimmed
		}
	}
	return capDescription(firstLine)
}

func capDescription(desc string) string {
	return truncate(desc, maxDescriptionLength)
}

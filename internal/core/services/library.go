package services

import (
	"context"
	"fmt"

	"github.com/herring101/docs-mcp/internal/core/domain"
	"github.com/herring101/docs-mcp/internal/core/ports/driven"
	"github.com/herring101/docs-mcp/internal/core/ports/driving"
	"github.com/herring101/docs-mcp/internal/logger"
)

// Ensure LibraryService implements the interface.
var _ driving.DocumentService = (*LibraryService)(nil)

// LibraryService serves the read-only corpus operations: listing and
// fetching documents. Descriptions come from the artifact store when
// the generator has run; bare paths otherwise.
type LibraryService struct {
	docStore  driven.DocumentStore
	artifacts driven.ArtifactStore
}

// NewLibraryService creates a new library service.
// The artifact store is optional - without it, listings carry no descriptions.
func NewLibraryService(docStore driven.DocumentStore, artifacts driven.ArtifactStore) *LibraryService {
	return &LibraryService{
		docStore:  docStore,
		artifacts: artifacts,
	}
}

// List enumerates corpus documents sorted by path, enriched with
// generated descriptions where available.
func (s *LibraryService) List(ctx context.Context) ([]domain.DocumentListing, error) {
	docs, err := s.docStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	descriptions := map[string]string{}
	if s.artifacts != nil {
		descriptions, err = s.artifacts.LoadDescriptions(ctx)
		if err != nil {
			// Descriptions are an enrichment, not a requirement.
			logger.Warn("Failed to load descriptions: %v", err)
			descriptions = map[string]string{}
		}
	}

	listings := make([]domain.DocumentListing, len(docs))
	for i := range docs {
		listings[i] = domain.DocumentListing{
			Path:        docs[i].Path,
			Description: descriptions[docs[i].Path],
		}
	}
	return listings, nil
}

// Get returns the full content of a document by root-relative path.
func (s *LibraryService) Get(ctx context.Context, path string) (string, error) {
	doc, err := s.docStore.Read(ctx, path)
	if err != nil {
		return "", err
	}
	return doc.Content, nil
}

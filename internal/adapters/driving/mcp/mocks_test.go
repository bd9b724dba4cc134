package mcp

import (
	"context"

	"github.com/herring101/docs-mcp/internal/core/domain"
)

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	listings []domain.DocumentListing
	content  string
	err      error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.DocumentListing, error) {
	return m.listings, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (string, error) {
	return m.content, m.err
}

// mockGrepService is a mock implementation of driving.GrepService.
type mockGrepService struct {
	result     *domain.GrepResult
	ignoreCase bool
	err        error
}

func (m *mockGrepService) Grep(_ context.Context, _ string, ignoreCase bool) (*domain.GrepResult, error) {
	m.ignoreCase = ignoreCase
	return m.result, m.err
}

// mockSemanticService is a mock implementation of driving.SemanticService.
type mockSemanticService struct {
	results []domain.SearchResult
	limit   int
	err     error
}

func (m *mockSemanticService) Search(_ context.Context, _ string, limit int) ([]domain.SearchResult, error) {
	m.limit = limit
	return m.results, m.err
}

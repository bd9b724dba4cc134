package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herring101/docs-mcp/internal/core/domain"
)

func newTestServer(t *testing.T, ports *Ports) *Server {
	t.Helper()
	server, err := NewServer(ports)
	require.NoError(t, err)
	return server
}

func TestServer_handleListDocs(t *testing.T) {
	ctx := context.Background()

	t.Run("returns listings with descriptions", func(t *testing.T) {
		docs := &mockDocumentService{
			listings: []domain.DocumentListing{
				{Path: "guide/intro.md", Description: "Introduction"},
				{Path: "guide/setup.md"},
			},
		}
		server := newTestServer(t, &Ports{Documents: docs, Grep: &mockGrepService{}})

		_, output, err := server.handleListDocs(ctx, nil, ListDocsInput{})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, "guide/intro.md", output.Documents[0].Path)
		assert.Equal(t, "Introduction", output.Documents[0].Description)
		assert.Empty(t, output.Documents[1].Description)
	})

	t.Run("propagates service error", func(t *testing.T) {
		docs := &mockDocumentService{err: errors.New("boom")}
		server := newTestServer(t, &Ports{Documents: docs, Grep: &mockGrepService{}})

		_, _, err := server.handleListDocs(ctx, nil, ListDocsInput{})
		require.Error(t, err)
	})
}

func TestServer_handleGetDoc(t *testing.T) {
	ctx := context.Background()

	t.Run("returns document content", func(t *testing.T) {
		docs := &mockDocumentService{content: "# Hello\n"}
		server := newTestServer(t, &Ports{Documents: docs, Grep: &mockGrepService{}})

		_, output, err := server.handleGetDoc(ctx, nil, GetDocInput{Path: "guide/intro.md"})

		require.NoError(t, err)
		assert.Equal(t, "guide/intro.md", output.Path)
		assert.Equal(t, "# Hello\n", output.Content)
	})

	t.Run("unknown path propagates not found", func(t *testing.T) {
		docs := &mockDocumentService{err: domain.ErrNotFound}
		server := newTestServer(t, &Ports{Documents: docs, Grep: &mockGrepService{}})

		_, _, err := server.handleGetDoc(ctx, nil, GetDocInput{Path: "missing.md"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_handleGrepDocs(t *testing.T) {
	ctx := context.Background()

	t.Run("returns matches", func(t *testing.T) {
		grep := &mockGrepService{
			result: &domain.GrepResult{
				Matches: []domain.GrepMatch{{Path: "a.md", Line: 3, Text: "needle here"}},
				Total:   1,
			},
		}
		server := newTestServer(t, &Ports{Documents: &mockDocumentService{}, Grep: grep})

		_, output, err := server.handleGrepDocs(ctx, nil, GrepDocsInput{Pattern: "needle"})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Total)
		assert.False(t, output.Truncated)
		assert.Equal(t, "a.md", output.Matches[0].Path)
		assert.Equal(t, 3, output.Matches[0].Line)
	})

	t.Run("ignore_case defaults to true", func(t *testing.T) {
		grep := &mockGrepService{result: &domain.GrepResult{}}
		server := newTestServer(t, &Ports{Documents: &mockDocumentService{}, Grep: grep})

		_, _, err := server.handleGrepDocs(ctx, nil, GrepDocsInput{Pattern: "x"})

		require.NoError(t, err)
		assert.True(t, grep.ignoreCase)
	})

	t.Run("explicit false disables ignore_case", func(t *testing.T) {
		grep := &mockGrepService{result: &domain.GrepResult{}}
		server := newTestServer(t, &Ports{Documents: &mockDocumentService{}, Grep: grep})

		caseSensitive := false
		_, _, err := server.handleGrepDocs(ctx, nil, GrepDocsInput{Pattern: "x", IgnoreCase: &caseSensitive})

		require.NoError(t, err)
		assert.False(t, grep.ignoreCase)
	})

	t.Run("reports truncation over the match cap", func(t *testing.T) {
		matches := make([]domain.GrepMatch, domain.MaxGrepMatches)
		grep := &mockGrepService{
			result: &domain.GrepResult{Matches: matches, Total: domain.MaxGrepMatches + 7},
		}
		server := newTestServer(t, &Ports{Documents: &mockDocumentService{}, Grep: grep})

		_, output, err := server.handleGrepDocs(ctx, nil, GrepDocsInput{Pattern: "x"})

		require.NoError(t, err)
		assert.True(t, output.Truncated)
		assert.Equal(t, domain.MaxGrepMatches+7, output.Total)
	})

	t.Run("invalid pattern propagates", func(t *testing.T) {
		grep := &mockGrepService{err: domain.ErrInvalidPattern}
		server := newTestServer(t, &Ports{Documents: &mockDocumentService{}, Grep: grep})

		_, _, err := server.handleGrepDocs(ctx, nil, GrepDocsInput{Pattern: "["})
		assert.ErrorIs(t, err, domain.ErrInvalidPattern)
	})
}

func TestServer_handleSemanticSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ranked results", func(t *testing.T) {
		semantic := &mockSemanticService{
			results: []domain.SearchResult{
				{Path: "guide/intro.md", Score: 0.92, Description: "Introduction", Preview: "Welcome"},
			},
		}
		server := newTestServer(t, &Ports{
			Documents: &mockDocumentService{},
			Grep:      &mockGrepService{},
			Semantic:  semantic,
		})

		_, output, err := server.handleSemanticSearch(ctx, nil, SemanticSearchInput{Query: "intro", Limit: 3})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, "guide/intro.md", output.Results[0].Path)
		assert.Equal(t, 0.92, output.Results[0].Score)
		assert.Equal(t, 3, semantic.limit)
	})

	t.Run("zero limit uses the default", func(t *testing.T) {
		semantic := &mockSemanticService{}
		server := newTestServer(t, &Ports{
			Documents: &mockDocumentService{},
			Grep:      &mockGrepService{},
			Semantic:  semantic,
		})

		_, _, err := server.handleSemanticSearch(ctx, nil, SemanticSearchInput{Query: "intro"})

		require.NoError(t, err)
		assert.Equal(t, DefaultSearchLimit, semantic.limit)
	})

	t.Run("nil semantic port reports embeddings unavailable", func(t *testing.T) {
		server := newTestServer(t, &Ports{
			Documents: &mockDocumentService{},
			Grep:      &mockGrepService{},
		})

		_, _, err := server.handleSemanticSearch(ctx, nil, SemanticSearchInput{Query: "intro"})
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})

	t.Run("missing artifacts propagate", func(t *testing.T) {
		semantic := &mockSemanticService{err: domain.ErrMetadataNotGenerated}
		server := newTestServer(t, &Ports{
			Documents: &mockDocumentService{},
			Grep:      &mockGrepService{},
			Semantic:  semantic,
		})

		_, _, err := server.handleSemanticSearch(ctx, nil, SemanticSearchInput{Query: "intro"})
		assert.ErrorIs(t, err, domain.ErrMetadataNotGenerated)
	})
}

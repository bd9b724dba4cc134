package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herring101/docs-mcp/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uri},
	}
}

func TestServer_handleLibraryResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns listing as JSON", func(t *testing.T) {
		docs := &mockDocumentService{
			listings: []domain.DocumentListing{
				{Path: "guide/intro.md", Description: "Introduction"},
			},
		}
		server := newTestServer(t, &Ports{Documents: docs, Grep: &mockGrepService{}})

		result, err := server.handleLibraryResource(ctx, readRequest(uriScheme+"library"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, "guide/intro.md")
		assert.Contains(t, result.Contents[0].Text, "Introduction")
	})
}

func TestServer_handleDocumentResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns document content", func(t *testing.T) {
		docs := &mockDocumentService{content: "# Intro\n"}
		server := newTestServer(t, &Ports{Documents: docs, Grep: &mockGrepService{}})

		result, err := server.handleDocumentResource(ctx, readRequest(uriScheme+"documents/guide/intro.md"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
		assert.Equal(t, "# Intro\n", result.Contents[0].Text)
	})

	t.Run("unknown scheme is not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{Documents: &mockDocumentService{}, Grep: &mockGrepService{}})

		_, err := server.handleDocumentResource(ctx, readRequest("docs://other/thing"))
		require.Error(t, err)
	})
}

func TestExtractDocumentPath(t *testing.T) {
	assert.Equal(t, "guide/intro.md", extractDocumentPath(uriScheme+"documents/guide/intro.md"))
	assert.Empty(t, extractDocumentPath(uriScheme+"library"))
	assert.Empty(t, extractDocumentPath("http://example.com"))
}

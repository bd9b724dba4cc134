package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/herring101/docs-mcp/internal/core/domain"
)

// DefaultSearchLimit is the semantic_search result cap when the caller
// does not provide one.
const DefaultSearchLimit = 5

// ListDocsInput is the input schema for the list_docs tool.
type ListDocsInput struct{}

// ListDocsOutput is the output schema for the list_docs tool.
type ListDocsOutput struct {
	Documents []DocListingOutput `json:"documents"`
	Count     int                `json:"count"`
}

// DocListingOutput is a single corpus entry.
type DocListingOutput struct {
	Path        string `json:"path"`
	Description string `json:"description,omitempty"`
}

// GetDocInput is the input schema for the get_doc tool.
type GetDocInput struct {
	Path string `json:"path" jsonschema:"root-relative path of the document to read"`
}

// GetDocOutput is the output schema for the get_doc tool.
type GetDocOutput struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// GrepDocsInput is the input schema for the grep_docs tool.
// IgnoreCase is a pointer so that an omitted field defaults to true.
type GrepDocsInput struct {
	Pattern    string `json:"pattern" jsonschema:"regular expression to search document contents with"`
	IgnoreCase *bool  `json:"ignore_case,omitempty" jsonschema:"case-insensitive matching (default true)"`
}

// GrepDocsOutput is the output schema for the grep_docs tool.
type GrepDocsOutput struct {
	Matches   []GrepMatchOutput `json:"matches"`
	Total     int               `json:"total"`
	Truncated bool              `json:"truncated"`
}

// GrepMatchOutput is a single grep match.
type GrepMatchOutput struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// SemanticSearchInput is the input schema for the semantic_search tool.
type SemanticSearchInput struct {
	Query string `json:"query" jsonschema:"natural language query to rank documents against"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 5)"`
}

// SemanticSearchOutput is the output schema for the semantic_search tool.
type SemanticSearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput is a single ranked result.
type SearchResultOutput struct {
	Path        string  `json:"path"`
	Score       float64 `json:"score"`
	Description string  `json:"description,omitempty"`
	Preview     string  `json:"preview,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_docs",
		Description: "List all documents in the library with their descriptions",
	}, s.handleListDocs)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_doc",
		Description: "Read the full content of a document by path",
	}, s.handleGetDoc)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "grep_docs",
		Description: "Search document contents with a regular expression",
	}, s.handleGrepDocs)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "semantic_search",
		Description: "Find documents semantically related to a natural language query",
	}, s.handleSemanticSearch)
}

// handleListDocs handles the list_docs tool invocation.
func (s *Server) handleListDocs(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocsInput,
) (*mcp.CallToolResult, ListDocsOutput, error) {
	listings, err := s.ports.Documents.List(ctx)
	if err != nil {
		return nil, ListDocsOutput{}, err
	}

	output := ListDocsOutput{
		Documents: make([]DocListingOutput, len(listings)),
		Count:     len(listings),
	}
	for i := range listings {
		output.Documents[i] = DocListingOutput{
			Path:        listings[i].Path,
			Description: listings[i].Description,
		}
	}
	return nil, output, nil
}

// handleGetDoc handles the get_doc tool invocation.
func (s *Server) handleGetDoc(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetDocInput,
) (*mcp.CallToolResult, GetDocOutput, error) {
	content, err := s.ports.Documents.Get(ctx, input.Path)
	if err != nil {
		return nil, GetDocOutput{}, err
	}
	return nil, GetDocOutput{Path: input.Path, Content: content}, nil
}

// handleGrepDocs handles the grep_docs tool invocation.
func (s *Server) handleGrepDocs(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GrepDocsInput,
) (*mcp.CallToolResult, GrepDocsOutput, error) {
	ignoreCase := true
	if input.IgnoreCase != nil {
		ignoreCase = *input.IgnoreCase
	}

	result, err := s.ports.Grep.Grep(ctx, input.Pattern, ignoreCase)
	if err != nil {
		return nil, GrepDocsOutput{}, err
	}

	output := GrepDocsOutput{
		Matches:   make([]GrepMatchOutput, len(result.Matches)),
		Total:     result.Total,
		Truncated: result.Truncated(),
	}
	for i := range result.Matches {
		output.Matches[i] = GrepMatchOutput{
			Path: result.Matches[i].Path,
			Line: result.Matches[i].Line,
			Text: result.Matches[i].Text,
		}
	}
	return nil, output, nil
}

// handleSemanticSearch handles the semantic_search tool invocation.
func (s *Server) handleSemanticSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SemanticSearchInput,
) (*mcp.CallToolResult, SemanticSearchOutput, error) {
	if s.ports.Semantic == nil {
		return nil, SemanticSearchOutput{},
			fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable)
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	results, err := s.ports.Semantic.Search(ctx, input.Query, limit)
	if err != nil {
		return nil, SemanticSearchOutput{}, err
	}

	output := SemanticSearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = SearchResultOutput{
			Path:        results[i].Path,
			Score:       results[i].Score,
			Description: results[i].Description,
			Preview:     results[i].Preview,
		}
	}
	return nil, output, nil
}

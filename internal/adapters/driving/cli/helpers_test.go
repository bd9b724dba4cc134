package cli

import (
	"bytes"
	"context"
	"errors"

	"github.com/herring101/docs-mcp/internal/core/domain"
	"github.com/herring101/docs-mcp/internal/core/ports/driving"
)

// setupTestServices installs mock services behind the shared command
// variables and disables the real wiring for the duration of a test.
// The returned cleanup restores the previous state.
func setupTestServices() func() {
	oldPreRun := rootCmd.PersistentPreRunE
	oldDocument := documentService
	oldGrep := grepService
	oldSemantic := semanticService
	oldGenerator := generatorService

	rootCmd.PersistentPreRunE = nil
	documentService = &mockDocumentService{}
	grepService = &mockGrepService{}
	semanticService = &mockSemanticService{}
	generatorService = &mockGeneratorService{}

	return func() {
		rootCmd.PersistentPreRunE = oldPreRun
		documentService = oldDocument
		grepService = oldGrep
		semanticService = oldSemantic
		generatorService = oldGenerator
	}
}

type mockDocumentService struct {
	err error
}

var _ driving.DocumentService = (*mockDocumentService)(nil)

func (m *mockDocumentService) List(_ context.Context) ([]domain.DocumentListing, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []domain.DocumentListing{
		{Path: "api.md", Description: "API reference"},
		{Path: "guide/intro.md"},
	}, nil
}

func (m *mockDocumentService) Get(_ context.Context, path string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if path != "api.md" {
		return "", domain.ErrNotFound
	}
	return "# API\n\nEndpoints.\n", nil
}

type mockGrepService struct {
	result *domain.GrepResult
	err    error
}

var _ driving.GrepService = (*mockGrepService)(nil)

func (m *mockGrepService) Grep(_ context.Context, _ string, _ bool) (*domain.GrepResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.GrepResult{
		Matches: []domain.GrepMatch{{Path: "api.md", Line: 3, Text: "GET /users"}},
		Total:   1,
	}, nil
}

type mockSemanticService struct {
	err error
}

var _ driving.SemanticService = (*mockSemanticService)(nil)

func (m *mockSemanticService) Search(_ context.Context, _ string, _ int) ([]domain.SearchResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []domain.SearchResult{
		{Path: "api.md", Score: 0.91, Description: "API reference", Preview: "Endpoints for user management."},
	}, nil
}

type mockGeneratorService struct {
	report *driving.GenerateReport
	err    error
}

var _ driving.GeneratorService = (*mockGeneratorService)(nil)

func (m *mockGeneratorService) Generate(_ context.Context) (*driving.GenerateReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.report != nil {
		return m.report, nil
	}
	return &driving.GenerateReport{Documents: 2, Embedded: 2}, nil
}

var errService = errors.New("service failure")

// runCommand executes the root command with the given arguments and
// returns the captured output.
func runCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/herring101/docs-mcp/internal/core/domain"
	"github.com/herring101/docs-mcp/internal/core/ports/driven"
	"github.com/herring101/docs-mcp/internal/core/ports/driving"
)

// Ensure GrepService implements the interface.
var _ driving.GrepService = (*GrepService)(nil)

// maxLineLength caps how much of a matching line is reported.
const maxLineLength = 120

// GrepService scans document contents with regular expressions.
// Matching is independent per document; results follow document
// enumeration order, not relevance.
type GrepService struct {
	docStore driven.DocumentStore
}

// NewGrepService creates a new grep service.
func NewGrepService(docStore driven.DocumentStore) *GrepService {
	return &GrepService{docStore: docStore}
}

// Grep compiles the pattern and scans every document line by line.
// Case-insensitivity is applied by the compile-time flag, never by
// mutating the scanned text.
func (s *GrepService) Grep(ctx context.Context, pattern string, ignoreCase bool) (*domain.GrepResult, error) {
	if ignoreCase {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPattern, err)
	}

	docs, err := s.docStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	result := &domain.GrepResult{}
	for i := range docs {
		lines := strings.Split(docs[i].Content, "\n")
		for n, line := range lines {
			if !re.MatchString(line) {
				continue
			}
			result.Total++
			if len(result.Matches) >= domain.MaxGrepMatches {
				continue
			}
			result.Matches = append(result.Matches, domain.GrepMatch{
				Path: docs[i].Path,
				Line: n + 1,
				Text: previewLine(line),
			})
		}
	}
	return result, nil
}

// previewLine trims and caps a matching line for display.
func previewLine(line string) string {
	return truncate(strings.TrimSpace(line), maxLineLength)
}

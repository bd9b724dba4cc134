package file

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/herring101/docs-mcp/internal/core/domain"
	"github.com/herring101/docs-mcp/internal/core/ports/driven"
	"github.com/herring101/docs-mcp/internal/logger"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore loads corpus documents from the configured document root.
// Every call re-reads from disk; corpora are small and correctness beats
// caching here.
type DocumentStore struct {
	cfg domain.LibraryConfig
}

// NewDocumentStore creates a document store for a validated configuration.
func NewDocumentStore(cfg domain.LibraryConfig) *DocumentStore {
	return &DocumentStore{cfg: cfg}
}

// List enumerates documents under the root, applying the folder and
// extension allow-lists, sorted by root-relative path.
func (s *DocumentStore) List(ctx context.Context) ([]domain.Document, error) {
	root := s.cfg.DocsDir
	if _, err := os.Stat(root); os.IsNotExist(err) {
		// An empty corpus is not an error; nothing imported yet.
		return nil, nil
	}

	var docs []domain.Document
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !s.cfg.FolderAllowed(rel) || !s.cfg.ExtensionAllowed(rel) {
			return nil
		}

		doc, err := s.load(path, rel)
		if err != nil {
			// Unreadable files are skipped, not fatal to enumeration.
			logger.Warn("Skipping unreadable file %s: %v", rel, err)
			return nil
		}
		docs = append(docs, *doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

// Read loads a single document by root-relative path. Paths that are
// absolute, contain traversal segments, or resolve outside the document
// root return domain.ErrNotFound - out-of-root content must never leak.
func (s *DocumentStore) Read(_ context.Context, relPath string) (*domain.Document, error) {
	abs, err := s.resolve(relPath)
	if err != nil {
		return nil, err
	}

	rel := filepath.ToSlash(filepath.Clean(filepath.FromSlash(relPath)))
	if !s.cfg.FolderAllowed(rel) || !s.cfg.ExtensionAllowed(rel) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, relPath)
	}

	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, relPath)
	}

	return s.load(abs, rel)
}

// resolve maps a root-relative path to an absolute location, rejecting
// anything that escapes the document root.
func (s *DocumentStore) resolve(relPath string) (string, error) {
	if relPath == "" || filepath.IsAbs(relPath) {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, relPath)
	}

	cleaned := filepath.Clean(filepath.FromSlash(relPath))
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, relPath)
	}

	root, err := filepath.Abs(s.cfg.DocsDir)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}

	abs := filepath.Join(root, cleaned)
	if abs != root && !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", domain.ErrNotFound, relPath)
	}
	return abs, nil
}

// load reads file content and builds the domain document.
func (s *DocumentStore) load(abs, rel string) (*domain.Document, error) {
	content, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}

	text := string(content)
	return &domain.Document{
		Path:    rel,
		AbsPath: abs,
		Content: text,
		Size:    int64(len(content)),
		Lines:   strings.Count(text, "\n") + 1,
	}, nil
}

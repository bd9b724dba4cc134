package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/herring101/docs-mcp/internal/core/domain"
	"github.com/herring101/docs-mcp/internal/core/ports/driven"
	"github.com/herring101/docs-mcp/internal/logger"
)

// Ensure ArtifactStore implements the interface.
var _ driven.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore persists the descriptions and embeddings artifacts as
// flat JSON files under the library base directory.
//
// Loads go through an explicit cache invalidated on write: by Save calls
// in-process, and by filesystem events when Watch is running (another
// process regenerating the artifacts). There is no ambient global state;
// the cache lives on the store instance.
type ArtifactStore struct {
	descriptionsPath string
	embeddingsPath   string

	mu               sync.RWMutex
	descriptions     map[string]string
	embeddings       []domain.DocumentEmbedding
	descriptionsOK   bool
	embeddingsOK     bool
}

// NewArtifactStore creates an artifact store for a validated configuration.
func NewArtifactStore(cfg domain.LibraryConfig) *ArtifactStore {
	return &ArtifactStore{
		descriptionsPath: cfg.DescriptionsPath(),
		embeddingsPath:   cfg.EmbeddingsPath(),
	}
}

// SaveDescriptions replaces the descriptions artifact.
func (s *ArtifactStore) SaveDescriptions(_ context.Context, descriptions map[string]string) error {
	data, err := json.MarshalIndent(descriptions, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal descriptions: %v", domain.ErrPersistence, err)
	}
	if err := atomicWrite(s.descriptionsPath, data); err != nil {
		return err
	}

	s.mu.Lock()
	s.descriptions = copyDescriptions(descriptions)
	s.descriptionsOK = true
	s.mu.Unlock()
	return nil
}

// LoadDescriptions loads the descriptions artifact, or an empty map when
// it does not exist.
func (s *ArtifactStore) LoadDescriptions(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	if s.descriptionsOK {
		cached := copyDescriptions(s.descriptions)
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	data, err := os.ReadFile(s.descriptionsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read descriptions: %w", err)
	}

	var descriptions map[string]string
	if err := json.Unmarshal(data, &descriptions); err != nil {
		return nil, fmt.Errorf("decode descriptions: %w", err)
	}
	if descriptions == nil {
		descriptions = map[string]string{}
	}

	s.mu.Lock()
	s.descriptions = copyDescriptions(descriptions)
	s.descriptionsOK = true
	s.mu.Unlock()
	return descriptions, nil
}

// SaveEmbeddings replaces the embeddings artifact, sorted by path so the
// output is deterministic regardless of generation completion order.
func (s *ArtifactStore) SaveEmbeddings(_ context.Context, embeddings []domain.DocumentEmbedding) error {
	sorted := make([]domain.DocumentEmbedding, len(embeddings))
	copy(sorted, embeddings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	data, err := json.Marshal(sorted)
	if err != nil {
		return fmt.Errorf("%w: marshal embeddings: %v", domain.ErrPersistence, err)
	}
	if err := atomicWrite(s.embeddingsPath, data); err != nil {
		return err
	}

	s.mu.Lock()
	s.embeddings = sorted
	s.embeddingsOK = true
	s.mu.Unlock()
	return nil
}

// LoadEmbeddings loads the embeddings artifact. Absent or empty
// artifacts yield domain.ErrMetadataNotGenerated.
func (s *ArtifactStore) LoadEmbeddings(_ context.Context) ([]domain.DocumentEmbedding, error) {
	s.mu.RLock()
	if s.embeddingsOK {
		cached := s.embeddings
		s.mu.RUnlock()
		if len(cached) == 0 {
			return nil, domain.ErrMetadataNotGenerated
		}
		return cached, nil
	}
	s.mu.RUnlock()

	data, err := os.ReadFile(s.embeddingsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrMetadataNotGenerated
		}
		return nil, fmt.Errorf("read embeddings: %w", err)
	}

	var embeddings []domain.DocumentEmbedding
	if err := json.Unmarshal(data, &embeddings); err != nil {
		return nil, fmt.Errorf("decode embeddings: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, domain.ErrMetadataNotGenerated
	}

	s.mu.Lock()
	s.embeddings = embeddings
	s.embeddingsOK = true
	s.mu.Unlock()
	return embeddings, nil
}

// Invalidate drops the cached artifacts so the next load re-reads disk.
func (s *ArtifactStore) Invalidate() {
	s.mu.Lock()
	s.descriptionsOK = false
	s.embeddingsOK = false
	s.descriptions = nil
	s.embeddings = nil
	s.mu.Unlock()
}

// Watch invalidates the cache when either artifact changes on disk.
// It blocks until the context is cancelled. Intended for the serve path,
// where a generation run in another process replaces the artifacts.
func (s *ArtifactStore) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: atomic renames replace the files, so watching
	// the paths directly would lose the watch after the first write.
	if err := watcher.Add(filepath.Dir(s.embeddingsPath)); err != nil {
		return fmt.Errorf("watch artifacts dir: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name == s.embeddingsPath || event.Name == s.descriptionsPath {
				logger.Debug("Artifact changed on disk: %s", event.Name)
				s.Invalidate()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Artifact watcher error: %v", err)
		}
	}
}

// atomicWrite writes data to a temp file in the target directory and
// renames it into place, so readers never observe a partial file.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", domain.ErrPersistence, dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", domain.ErrPersistence, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", domain.ErrPersistence, path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", domain.ErrPersistence, path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %v", domain.ErrPersistence, path, err)
	}
	return nil
}

func copyDescriptions(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

package services

import (
	"context"

	"github.com/herring101/docs-mcp/internal/core/domain"
)

// mockDocStore is a mock implementation of driven.DocumentStore.
type mockDocStore struct {
	docs []domain.Document
	err  error
}

func (m *mockDocStore) List(_ context.Context) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockDocStore) Read(_ context.Context, relPath string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.docs {
		if m.docs[i].Path == relPath {
			return &m.docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// mockArtifacts is a mock implementation of driven.ArtifactStore.
type mockArtifacts struct {
	descriptions map[string]string
	embeddings   []domain.DocumentEmbedding

	savedDescriptions map[string]string
	savedEmbeddings   []domain.DocumentEmbedding

	loadErr error
	saveErr error
}

func (m *mockArtifacts) SaveDescriptions(_ context.Context, descriptions map[string]string) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedDescriptions = descriptions
	return nil
}

func (m *mockArtifacts) LoadDescriptions(_ context.Context) (map[string]string, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.descriptions == nil {
		return map[string]string{}, nil
	}
	return m.descriptions, nil
}

func (m *mockArtifacts) SaveEmbeddings(_ context.Context, embeddings []domain.DocumentEmbedding) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.savedEmbeddings = embeddings
	return nil
}

func (m *mockArtifacts) LoadEmbeddings(_ context.Context) ([]domain.DocumentEmbedding, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if len(m.embeddings) == 0 {
		return nil, domain.ErrMetadataNotGenerated
	}
	return m.embeddings, nil
}

// mockEmbedder is a mock implementation of driven.EmbeddingService.
// It embeds deterministically via the embed function when set.
type mockEmbedder struct {
	embed      func(text string) []float32
	err        error
	batchCalls [][]string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.embed(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchCalls = append(m.batchCalls, texts)
	if m.err != nil {
		return nil, m.err
	}
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = m.embed(text)
	}
	return vectors, nil
}

func (m *mockEmbedder) Dimensions() int              { return 3 }
func (m *mockEmbedder) ModelName() string            { return "mock-model" }
func (m *mockEmbedder) Ping(_ context.Context) error { return m.err }
func (m *mockEmbedder) Close() error                 { return nil }

package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herring101/docs-mcp/internal/core/domain"
)

// embedHandler returns per-input vectors, optionally failing the first
// failures requests with the given status.
func embedHandler(t *testing.T, failures int32, failStatus int) http.HandlerFunc {
	t.Helper()
	var calls int32
	return func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= failures {
			w.WriteHeader(failStatus)
			return
		}

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		// Respond with indices reversed to exercise reordering.
		resp := embeddingResponse{}
		for i := len(req.Input) - 1; i >= 0; i-- {
			resp.Data = append(resp.Data, struct {
				Embedding []float64 `json:"embedding"`
				Index     int       `json:"index"`
			}{
				Embedding: []float64{float64(i), 1},
				Index:     i,
			})
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}
}

func newTestService(t *testing.T, handler http.Handler) *EmbeddingService {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewEmbeddingService(Config{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	})
	require.NoError(t, err)
	return svc
}

func TestNewEmbeddingService(t *testing.T) {
	t.Run("requires API key", func(t *testing.T) {
		_, err := NewEmbeddingService(Config{})
		require.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		svc, err := NewEmbeddingService(Config{APIKey: "k"})
		require.NoError(t, err)
		assert.Equal(t, DefaultModel, svc.ModelName())
		assert.Equal(t, 3072, svc.Dimensions())
	})

	t.Run("unknown model falls back to 1536 dimensions", func(t *testing.T) {
		svc, err := NewEmbeddingService(Config{APIKey: "k", Model: "custom-model"})
		require.NoError(t, err)
		assert.Equal(t, 1536, svc.Dimensions())
	})
}

func TestEmbeddingService_EmbedBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("preserves input order", func(t *testing.T) {
		svc := newTestService(t, embedHandler(t, 0, 0))

		vectors, err := svc.EmbedBatch(ctx, []string{"first", "second", "third"})

		require.NoError(t, err)
		require.Len(t, vectors, 3)
		assert.Equal(t, []float32{0, 1}, vectors[0])
		assert.Equal(t, []float32{1, 1}, vectors[1])
		assert.Equal(t, []float32{2, 1}, vectors[2])
	})

	t.Run("splits into request batches", func(t *testing.T) {
		var requests int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&requests, 1)
			embedHandler(t, 0, 0)(w, r)
		}))
		t.Cleanup(srv.Close)
		svc, err := NewEmbeddingService(Config{APIKey: "k", BaseURL: srv.URL})
		require.NoError(t, err)

		texts := make([]string, MaxBatchSize+1)
		for i := range texts {
			texts[i] = "text"
		}

		vectors, err := svc.EmbedBatch(ctx, texts)

		require.NoError(t, err)
		assert.Len(t, vectors, MaxBatchSize+1)
		assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
	})

	t.Run("empty input", func(t *testing.T) {
		svc := newTestService(t, embedHandler(t, 0, 0))
		vectors, err := svc.EmbedBatch(ctx, nil)
		require.NoError(t, err)
		assert.Nil(t, vectors)
	})

	t.Run("retries transient server error", func(t *testing.T) {
		svc := newTestService(t, embedHandler(t, 1, http.StatusInternalServerError))

		vectors, err := svc.EmbedBatch(ctx, []string{"text"})

		require.NoError(t, err)
		require.Len(t, vectors, 1)
	})

	t.Run("exhausted retries wrap embedding unavailable", func(t *testing.T) {
		svc := newTestService(t, embedHandler(t, int32(MaxAttempts), http.StatusServiceUnavailable))

		_, err := svc.EmbedBatch(ctx, []string{"text"})
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})

	t.Run("API error is not retried", func(t *testing.T) {
		var requests int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			atomic.AddInt32(&requests, 1)
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": {"message": "bad key", "type": "auth"}}`))
		}))
		t.Cleanup(srv.Close)
		svc, err := NewEmbeddingService(Config{APIKey: "bad", BaseURL: srv.URL})
		require.NoError(t, err)

		_, err = svc.EmbedBatch(ctx, []string{"text"})

		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
		assert.Equal(t, int32(1), atomic.LoadInt32(&requests))
	})
}

func TestEmbeddingService_Embed(t *testing.T) {
	svc := newTestService(t, embedHandler(t, 0, 0))

	vector, err := svc.Embed(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, vector)
}

func TestEmbeddingService_Ping(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/models", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"data": []}`))
		}))
		t.Cleanup(srv.Close)
		svc, err := NewEmbeddingService(Config{APIKey: "test-key", BaseURL: srv.URL})
		require.NoError(t, err)

		assert.NoError(t, svc.Ping(context.Background()))
	})

	t.Run("bad key", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		t.Cleanup(srv.Close)
		svc, err := NewEmbeddingService(Config{APIKey: "bad", BaseURL: srv.URL})
		require.NoError(t, err)

		assert.Error(t, svc.Ping(context.Background()))
	})
}

func TestTruncateInput(t *testing.T) {
	t.Run("replaces newlines with spaces", func(t *testing.T) {
		assert.Equal(t, "line one line two", truncateInput("line one\nline two"))
	})

	t.Run("caps oversized input", func(t *testing.T) {
		long := strings.Repeat("a\n", MaxInputChars)
		got := truncateInput(long)
		assert.Len(t, got, MaxInputChars)
		assert.NotContains(t, got, "\n")
	})

	t.Run("short input unchanged", func(t *testing.T) {
		assert.Equal(t, "short", truncateInput("short"))
	})
}

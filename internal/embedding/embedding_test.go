package embedding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	internalErrors "github.com/gcbaptista/go-address-matcher/internal/errors"
)

type countingEmbedder struct {
	calls  atomic.Int64
	vector []float64
	err    error
}

func (c *countingEmbedder) Embed(_ context.Context, _ string) ([]float64, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.vector, nil
}

func TestClientEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		_, _ = w.Write([]byte(`{"embedding": [0.1, 0.2, 0.3]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)
	vector, err := client.Embed(context.Background(), "123 N BEDFORD AVE")
	if err != nil {
		t.Fatalf("Embed returned error: %v", err)
	}
	if len(vector) != 3 || vector[1] != 0.2 {
		t.Errorf("unexpected vector: %v", vector)
	}
}

func TestClientEmbedProviderFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-200 status", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		}},
		{"empty vector", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"embedding": []}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewClient(server.URL, time.Second)
			_, err := client.Embed(context.Background(), "123 MAIN ST")
			if !errors.Is(err, internalErrors.ErrEmbeddingProvider) {
				t.Errorf("expected ErrEmbeddingProvider, got %v", err)
			}
		})
	}
}

func TestVectorCacheMemoizes(t *testing.T) {
	inner := &countingEmbedder{vector: []float64{1, 0}}
	cache := NewVectorCache(inner, 100)

	for i := 0; i < 3; i++ {
		vector, err := cache.Embed(context.Background(), "123 BEDFORD AVE")
		if err != nil {
			t.Fatalf("Embed returned error: %v", err)
		}
		if vector[0] != 1 {
			t.Errorf("unexpected vector: %v", vector)
		}
	}

	if got := inner.calls.Load(); got != 1 {
		t.Errorf("inner embedder called %d times, want 1", got)
	}
	if cache.Len() != 1 {
		t.Errorf("cache Len() = %d, want 1", cache.Len())
	}
}

func TestVectorCacheDoesNotCacheErrors(t *testing.T) {
	inner := &countingEmbedder{err: internalErrors.NewEmbeddingProviderError(503, "down")}
	cache := NewVectorCache(inner, 100)

	for i := 0; i < 2; i++ {
		if _, err := cache.Embed(context.Background(), "123 MAIN ST"); err == nil {
			t.Fatal("expected error from failing embedder")
		}
	}

	if got := inner.calls.Load(); got != 2 {
		t.Errorf("inner embedder called %d times, want 2 (errors must not be cached)", got)
	}
}

func TestVectorCacheClear(t *testing.T) {
	inner := &countingEmbedder{vector: []float64{1}}
	cache := NewVectorCache(inner, 100)

	_, _ = cache.Embed(context.Background(), "A")
	_, _ = cache.Embed(context.Background(), "B")
	cache.Clear()

	if cache.Len() != 0 {
		t.Errorf("cache Len() after Clear = %d, want 0", cache.Len())
	}
}

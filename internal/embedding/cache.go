package embedding

import (
	"context"
	"sync"

	"github.com/gcbaptista/go-address-matcher/services"
)

// VectorCache wraps an Embedder and memoizes vectors by text, so the
// canonical side of the embedding comparison is embedded at most once per
// registry snapshot. Errors are not cached; a failed embed is retried on the
// next request.
type VectorCache struct {
	embedder services.Embedder

	cache   map[string][]float64
	cacheMu sync.RWMutex

	// Cache size limit to prevent memory bloat
	maxCacheSize int
}

// NewVectorCache creates a cache in front of an embedder.
func NewVectorCache(embedder services.Embedder, maxCacheSize int) *VectorCache {
	return &VectorCache{
		embedder:     embedder,
		cache:        make(map[string][]float64),
		maxCacheSize: maxCacheSize,
	}
}

// Embed returns the cached vector for the text, embedding it if needed.
func (vc *VectorCache) Embed(ctx context.Context, text string) ([]float64, error) {
	vc.cacheMu.RLock()
	if cached, exists := vc.cache[text]; exists {
		vc.cacheMu.RUnlock()
		return cached, nil
	}
	vc.cacheMu.RUnlock()

	vector, err := vc.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	vc.cacheMu.Lock()
	if len(vc.cache) < vc.maxCacheSize {
		vc.cache[text] = vector
	}
	vc.cacheMu.Unlock()

	return vector, nil
}

// Clear empties the cache. Call when the registry snapshot is replaced.
func (vc *VectorCache) Clear() {
	vc.cacheMu.Lock()
	vc.cache = make(map[string][]float64)
	vc.cacheMu.Unlock()
}

// Len returns the number of cached vectors.
func (vc *VectorCache) Len() int {
	vc.cacheMu.RLock()
	defer vc.cacheMu.RUnlock()
	return len(vc.cache)
}

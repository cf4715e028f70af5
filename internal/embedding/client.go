// Package embedding provides the semantic vector provider used by the
// embedding stage of the cascade, plus a cache for registry vectors so a run
// embeds each canonical address at most once.
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	internalErrors "github.com/gcbaptista/go-address-matcher/internal/errors"
)

// Client calls an HTTP embedding service. It implements services.Embedder.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates an embedding client against the given endpoint.
func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// Embed returns the vector for a text. Failures come back as
// EmbeddingProviderError values; the cascade treats them as a skipped stage
// rather than a run failure.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	payload, err := json.Marshal(embedRequest{Text: text})
	if err != nil {
		return nil, internalErrors.NewEmbeddingProviderError(0, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, internalErrors.NewEmbeddingProviderError(0, err.Error())
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, internalErrors.NewEmbeddingProviderError(0, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, internalErrors.NewEmbeddingProviderError(resp.StatusCode, "provider returned non-200 status")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, internalErrors.NewEmbeddingProviderError(0, err.Error())
	}

	var decoded embedResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, internalErrors.NewEmbeddingProviderError(0, fmt.Sprintf("malformed provider response: %v", err))
	}
	if len(decoded.Embedding) == 0 {
		return nil, internalErrors.NewEmbeddingProviderError(0, "provider returned an empty vector")
	}
	return decoded.Embedding, nil
}

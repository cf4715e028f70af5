package strategy

import (
	"context"
	"fmt"

	"github.com/gcbaptista/go-address-matcher/config"
	"github.com/gcbaptista/go-address-matcher/index"
	internalErrors "github.com/gcbaptista/go-address-matcher/internal/errors"
	"github.com/gcbaptista/go-address-matcher/internal/similarity"
	"github.com/gcbaptista/go-address-matcher/model"
	"github.com/gcbaptista/go-address-matcher/services"
)

// Embedding compares dense vector encodings of the full address strings. It
// is the costliest in-process stage, so candidates stay restricted to the
// house-number block and canonical vectors should come through a memoizing
// embedder. Provider failures surface as EmbeddingProviderError so the
// cascade can skip the stage instead of failing the transaction.
type Embedding struct {
	registry []model.CanonicalAddress
	blocks   *index.BlockingIndex
	settings *config.MatcherSettings
	embedder services.Embedder
}

// NewEmbedding creates the embedding stage over a registry snapshot and its index.
func NewEmbedding(registry []model.CanonicalAddress, blocks *index.BlockingIndex, settings *config.MatcherSettings, embedder services.Embedder) *Embedding {
	return &Embedding{registry: registry, blocks: blocks, settings: settings, embedder: embedder}
}

func (e *Embedding) Type() model.MatchType { return model.MatchTypeEmbedding }

func (e *Embedding) Try(ctx context.Context, tx *model.TransactionAddress) (*Candidate, error) {
	if e.embedder == nil {
		return nil, internalErrors.NewEmbeddingProviderError(0, "no embedding provider configured")
	}

	full := txFull(tx)
	if full == "" {
		return nil, internalErrors.NewMalformedInputError("address", "embedding comparison needs an address string")
	}

	candidates := e.blocks.Candidates(index.ByHouseNumber, tx)
	if len(candidates) == 0 {
		return nil, nil
	}

	txVector, err := e.embedder.Embed(ctx, full)
	if err != nil {
		return nil, err
	}

	bestSim := -1.0
	bestPos := -1
	for _, pos := range candidates {
		candidate := e.registry[pos]
		candVector, err := e.embedder.Embed(ctx, canonicalFull(&candidate))
		if err != nil {
			return nil, err
		}
		if sim := similarity.Cosine(txVector, candVector); sim > bestSim {
			bestSim = sim
			bestPos = pos
		}
	}

	if bestPos < 0 || bestSim < e.settings.EmbeddingThreshold {
		return nil, nil
	}
	return &Candidate{
		Position:   bestPos,
		Canonical:  e.registry[bestPos],
		Confidence: bestSim,
		Reason:     fmt.Sprintf("cosine similarity %.3f at threshold %.2f", bestSim, e.settings.EmbeddingThreshold),
	}, nil
}

package strategy

import (
	"context"
	"fmt"

	"github.com/gcbaptista/go-address-matcher/config"
	"github.com/gcbaptista/go-address-matcher/index"
	internalErrors "github.com/gcbaptista/go-address-matcher/internal/errors"
	"github.com/gcbaptista/go-address-matcher/internal/similarity"
	"github.com/gcbaptista/go-address-matcher/model"
)

// Fuzzy scores candidates within the house-number block by token-sort
// similarity of the street strings. A candidate scoring exactly the threshold
// is accepted; ties go to the earliest candidate in registry order.
type Fuzzy struct {
	registry []model.CanonicalAddress
	blocks   *index.BlockingIndex
	settings *config.MatcherSettings
}

// NewFuzzy creates the fuzzy stage over a registry snapshot and its index.
func NewFuzzy(registry []model.CanonicalAddress, blocks *index.BlockingIndex, settings *config.MatcherSettings) *Fuzzy {
	return &Fuzzy{registry: registry, blocks: blocks, settings: settings}
}

func (f *Fuzzy) Type() model.MatchType { return model.MatchTypeFuzzy }

func (f *Fuzzy) Try(_ context.Context, tx *model.TransactionAddress) (*Candidate, error) {
	street := txStreet(tx)
	if street == "" {
		return nil, internalErrors.NewMalformedInputError("street_name", "fuzzy comparison needs a street string")
	}

	bestScore := -1
	bestPos := -1
	for _, pos := range f.blocks.Candidates(index.ByHouseNumber, tx) {
		candidate := f.registry[pos]
		score := similarity.TokenSortRatio(street, canonicalStreet(&candidate))
		if score > bestScore {
			bestScore = score
			bestPos = pos
		}
	}

	if bestPos < 0 || bestScore < f.settings.FuzzyThreshold {
		return nil, nil
	}
	return &Candidate{
		Position:   bestPos,
		Canonical:  f.registry[bestPos],
		Confidence: float64(bestScore) / 100,
		Reason:     fmt.Sprintf("token-sort score %d at threshold %d", bestScore, f.settings.FuzzyThreshold),
	}, nil
}

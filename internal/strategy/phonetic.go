package strategy

import (
	"context"
	"fmt"

	"github.com/gcbaptista/go-address-matcher/config"
	"github.com/gcbaptista/go-address-matcher/index"
	internalErrors "github.com/gcbaptista/go-address-matcher/internal/errors"
	"github.com/gcbaptista/go-address-matcher/internal/normalize"
	"github.com/gcbaptista/go-address-matcher/internal/similarity"
	"github.com/gcbaptista/go-address-matcher/model"
)

// Phonetic matches within the phonetic block: candidates whose street name
// sounds like the transaction's. Phonetic agreement is a strong prior, so the
// token-set refinement threshold sits below the fuzzy one, and confidence is
// scaled down to reflect the weaker guarantee. A phonetic block collapses the
// units of one building into sibling entries, so the scan considers only
// unit-compatible candidates. Equal top scores are refined by Jaro-Winkler
// similarity of the street names before falling back to registry order.
type Phonetic struct {
	registry []model.CanonicalAddress
	blocks   *index.BlockingIndex
	settings *config.MatcherSettings
}

// NewPhonetic creates the phonetic stage over a registry snapshot and its index.
func NewPhonetic(registry []model.CanonicalAddress, blocks *index.BlockingIndex, settings *config.MatcherSettings) *Phonetic {
	return &Phonetic{registry: registry, blocks: blocks, settings: settings}
}

func (p *Phonetic) Type() model.MatchType { return model.MatchTypePhonetic }

func (p *Phonetic) Try(_ context.Context, tx *model.TransactionAddress) (*Candidate, error) {
	if normalize.Field(tx.StreetName) == "" {
		return nil, internalErrors.NewMalformedInputError("street_name", "phonetic comparison needs a street name")
	}

	street := txStreet(tx)
	txName := normalize.Field(tx.StreetName)

	bestScore := -1
	bestJW := -1.0
	bestPos := -1
	for _, pos := range p.blocks.Candidates(index.ByHouseNumberAndPhonetic, tx) {
		candidate := p.registry[pos]
		if !UnitGate(tx, &candidate) {
			continue
		}
		// The street string against the candidate's full line: the token-set
		// ratio discounts the tokens only the registry side carries, while
		// city or ZIP tokens the transaction shares stay out of the score.
		score := similarity.TokenSetRatio(street, canonicalFull(&candidate))
		if score < bestScore {
			continue
		}
		jw := similarity.JaroWinkler(txName, normalize.Field(candidate.StreetName))
		if score > bestScore || jw > bestJW {
			bestScore = score
			bestJW = jw
			bestPos = pos
		}
	}

	if bestPos < 0 || bestScore < p.settings.PhoneticThreshold {
		return nil, nil
	}
	return &Candidate{
		Position:   bestPos,
		Canonical:  p.registry[bestPos],
		Confidence: float64(bestScore) / 100 * p.settings.PhoneticConfidenceScale,
		Reason:     fmt.Sprintf("phonetic block hit, token-set score %d at threshold %d", bestScore, p.settings.PhoneticThreshold),
	}, nil
}

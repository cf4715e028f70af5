package strategy

import (
	"context"

	"github.com/gcbaptista/go-address-matcher/index"
	"github.com/gcbaptista/go-address-matcher/internal/normalize"
	"github.com/gcbaptista/go-address-matcher/model"
)

// Exact matches on full field-by-field equality of the structured street
// components. Duplicate canonical entries are a data-quality condition; the
// first equal candidate in registry order wins.
type Exact struct {
	registry []model.CanonicalAddress
	blocks   *index.BlockingIndex
}

// NewExact creates the exact stage over a registry snapshot and its index.
func NewExact(registry []model.CanonicalAddress, blocks *index.BlockingIndex) *Exact {
	return &Exact{registry: registry, blocks: blocks}
}

func (e *Exact) Type() model.MatchType { return model.MatchTypeExact }

func (e *Exact) Try(_ context.Context, tx *model.TransactionAddress) (*Candidate, error) {
	for _, pos := range e.blocks.Candidates(index.ByHouseNumber, tx) {
		candidate := e.registry[pos]
		if fieldsEqual(tx, &candidate) {
			return &Candidate{
				Position:   pos,
				Canonical:  candidate,
				Confidence: 1.0,
				Reason:     "all street components equal",
			}, nil
		}
	}
	return nil, nil
}

// fieldsEqual compares every structured street component. House numbers are
// already equal within a block but are compared anyway so the function stands
// on its own for external re-comparison.
func fieldsEqual(tx *model.TransactionAddress, c *model.CanonicalAddress) bool {
	return normalize.Field(tx.HouseNumber) == normalize.Field(c.HouseNumber) &&
		normalize.Field(tx.PreDir) == normalize.Field(c.PreDir) &&
		normalize.Field(tx.StreetName) == normalize.Field(c.StreetName) &&
		normalize.Field(tx.StreetType) == normalize.Field(c.StreetType) &&
		normalize.Field(tx.PostDir) == normalize.Field(c.PostDir)
}

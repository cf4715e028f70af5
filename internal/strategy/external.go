package strategy

import (
	"context"

	"github.com/gcbaptista/go-address-matcher/index"
	internalErrors "github.com/gcbaptista/go-address-matcher/internal/errors"
	"github.com/gcbaptista/go-address-matcher/internal/normalize"
	"github.com/gcbaptista/go-address-matcher/model"
	"github.com/gcbaptista/go-address-matcher/services"
)

// External resolves the raw address text through the geocoding collaborator
// and re-compares the authoritative decomposition against the registry. The
// provider answering "no such address" yields a nil candidate; operational
// failures propagate as ExternalLookupError for the cascade to record as a
// failed transaction.
type External struct {
	registry []model.CanonicalAddress
	blocks   *index.BlockingIndex
	client   services.GeocodeClient
}

// NewExternal creates the external lookup stage over a registry snapshot and
// its index.
func NewExternal(registry []model.CanonicalAddress, blocks *index.BlockingIndex, client services.GeocodeClient) *External {
	return &External{registry: registry, blocks: blocks, client: client}
}

func (e *External) Type() model.MatchType { return model.MatchTypeExternal }

func (e *External) Try(ctx context.Context, tx *model.TransactionAddress) (*Candidate, error) {
	if e.client == nil {
		return nil, nil // No collaborator configured; the stage has nothing to propose.
	}
	if normalize.Field(tx.RawAddress) == "" {
		return nil, internalErrors.NewMalformedInputError("raw_address", "external lookup needs the raw address text")
	}

	authoritative, err := e.client.Lookup(ctx, tx.RawAddress)
	if err != nil {
		return nil, err
	}
	if authoritative == nil {
		return nil, nil // The provider has no record of this address.
	}

	// Block on the authoritative decomposition, not the messy transaction:
	// the lookup exists precisely because the transaction's own fields were
	// not trustworthy enough to match on.
	probe := &model.TransactionAddress{
		HouseNumber: authoritative.HouseNumber,
		StreetName:  authoritative.StreetName,
	}
	for _, pos := range e.blocks.Candidates(index.ByHouseNumberAndLetter, probe) {
		candidate := e.registry[pos]
		if !authoritativeEqual(authoritative, &candidate) {
			continue
		}
		return &Candidate{
			Position:   pos,
			Canonical:  candidate,
			Confidence: clampConfidence(authoritative.Accuracy),
			Reason:     "authoritative decomposition equals registry entry",
		}, nil
	}
	return nil, nil
}

// authoritativeEqual compares the authoritative result against a registry
// entry. House number and street name must be equal; directionals, street
// type, unit, and ZIP may be absent on either side but must agree when both
// sides carry them.
func authoritativeEqual(auth *services.GeocodeResult, c *model.CanonicalAddress) bool {
	if normalize.Field(auth.HouseNumber) != normalize.Field(c.HouseNumber) {
		return false
	}
	if normalize.Field(auth.StreetName) != normalize.Field(c.StreetName) {
		return false
	}
	return fieldsAgree(auth.PreDir, c.PreDir) &&
		fieldsAgree(auth.StreetType, c.StreetType) &&
		fieldsAgree(auth.PostDir, c.PostDir) &&
		fieldsAgree(auth.Unit, c.Unit) &&
		fieldsAgree(auth.ZIP, c.ZIP)
}

// fieldsAgree reports whether two optional fields are compatible: equal, or
// absent on at least one side.
func fieldsAgree(a, b string) bool {
	foldedA := normalize.Field(a)
	foldedB := normalize.Field(b)
	return foldedA == "" || foldedB == "" || foldedA == foldedB
}

// clampConfidence bounds a provider accuracy score to the unit interval.
func clampConfidence(accuracy float64) float64 {
	if accuracy < 0 {
		return 0
	}
	if accuracy > 1 {
		return 1
	}
	return accuracy
}

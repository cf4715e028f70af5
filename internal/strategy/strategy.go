// Package strategy implements the individual matching stages of the cascade.
// Each strategy proposes at most one candidate; the cascade applies the unit
// gate and decides acceptance.
package strategy

import (
	"context"
	"strings"

	"github.com/gcbaptista/go-address-matcher/internal/normalize"
	"github.com/gcbaptista/go-address-matcher/model"
)

// Candidate is a canonical registry entry proposed by a strategy, with the
// strategy's confidence in the proposal.
type Candidate struct {
	Position   int // Registry position of the canonical entry
	Canonical  model.CanonicalAddress
	Confidence float64
	Reason     string
}

// Strategy is one stage of the match cascade. Try returns the stage's best
// candidate, or nil when the stage has nothing to propose. Errors are
// reserved for operational failures (external lookup, embedding provider)
// and unusable input; "no candidates share the block key" is a nil
// candidate, never an error.
type Strategy interface {
	Type() model.MatchType
	Try(ctx context.Context, tx *model.TransactionAddress) (*Candidate, error)
}

// UnitGate reports whether the transaction and canonical unit designators
// match exactly. An absent unit only matches an absent unit; it is never a
// wildcard. The gate holds for every accepted match regardless of which
// strategy proposed it.
func UnitGate(tx *model.TransactionAddress, canonical *model.CanonicalAddress) bool {
	return normalize.Field(tx.Unit) == normalize.Field(canonical.Unit)
}

// txStreet returns the transaction's comparable street string.
func txStreet(tx *model.TransactionAddress) string {
	return normalize.FullStreet(tx.PreDir, tx.StreetName, tx.StreetType, tx.PostDir)
}

// canonicalStreet returns the canonical entry's comparable street string.
func canonicalStreet(c *model.CanonicalAddress) string {
	return normalize.FullStreet(c.PreDir, c.StreetName, c.StreetType, c.PostDir)
}

// canonicalFull returns the candidate string the phonetic and embedding
// stages compare whole addresses with: the registry's full address line when
// present, otherwise one assembled from components.
func canonicalFull(c *model.CanonicalAddress) string {
	if folded := normalize.Field(c.FullAddress); folded != "" {
		return folded
	}
	return joinAddressParts(c.HouseNumber, canonicalStreet(c), c.Unit, c.City, c.State, c.ZIP)
}

// txFull returns the transaction's full comparable address string.
func txFull(tx *model.TransactionAddress) string {
	return joinAddressParts(tx.HouseNumber, txStreet(tx), tx.Unit, tx.City, tx.State, tx.ZIP)
}

func joinAddressParts(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if folded := normalize.Field(p); folded != "" {
			kept = append(kept, folded)
		}
	}
	return strings.Join(kept, " ")
}

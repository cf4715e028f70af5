// Package cascade runs the ordered matching stages for a single transaction
// as an explicit state machine, so every termination path is a named
// transition rather than implicit control flow.
package cascade

import (
	"context"
	"errors"
	"fmt"

	internalErrors "github.com/gcbaptista/go-address-matcher/internal/errors"
	"github.com/gcbaptista/go-address-matcher/internal/strategy"
	"github.com/gcbaptista/go-address-matcher/model"
)

// State names a position in the per-transaction state machine.
type State string

const (
	StatePending      State = "pending"
	StateTryExact     State = "try_exact"
	StateTryFuzzy     State = "try_fuzzy"
	StateTryPhonetic  State = "try_phonetic"
	StateTryEmbedding State = "try_embedding"
	StateTryExternal  State = "try_external"
	StateResolved     State = "resolved"
	StateUnmatched    State = "unmatched"
	StateFailed       State = "failed"
)

// stageStates lists the trying states in cascade order; the stage at slot i
// of a Cascade runs in state stageStates[i].
var stageStates = []State{StateTryExact, StateTryFuzzy, StateTryPhonetic, StateTryEmbedding, StateTryExternal}

// Cascade holds the ordered strategies shared by every transaction in a run.
// It is read-only after construction and safe for concurrent use.
type Cascade struct {
	stages []strategy.Strategy
}

// New creates a cascade from strategies in execution order.
func New(stages ...strategy.Strategy) *Cascade {
	if len(stages) > len(stageStates) {
		panic("cascade: more stages than named states")
	}
	return &Cascade{stages: stages}
}

// machine is the per-transaction state. Workers never share one.
type machine struct {
	state      State
	stageIdx   int
	accepted   *strategy.Candidate
	acceptedBy model.MatchType
	failure    error
	lastReason string
}

// Run drives one transaction through the cascade and returns its terminal
// MatchResult. Data-quality outcomes (unmatched, gate rejections, skipped
// stages) are results, not errors; the error return is reserved for context
// cancellation.
func (c *Cascade) Run(ctx context.Context, tx *model.TransactionAddress) (*model.MatchResult, error) {
	m := &machine{state: StatePending}

	for {
		switch m.state {
		case StatePending:
			m.state = c.nextTryState(m, 0)

		case StateTryExact, StateTryFuzzy, StateTryPhonetic, StateTryEmbedding, StateTryExternal:
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			c.tryStage(ctx, m, tx)

		case StateResolved:
			return &model.MatchResult{
				TransactionID:  tx.ID,
				CanonicalID:    m.accepted.Canonical.ID,
				MatchedAddress: m.accepted.Canonical.FullAddress,
				Confidence:     m.accepted.Confidence,
				MatchType:      m.acceptedBy,
				Status:         model.MatchStatusResolved,
				Reason:         m.accepted.Reason,
			}, nil

		case StateUnmatched:
			reason := m.lastReason
			if reason == "" {
				reason = "all stages exhausted"
			}
			return &model.MatchResult{
				TransactionID: tx.ID,
				MatchType:     model.MatchTypeUnmatched,
				Status:        model.MatchStatusUnmatched,
				Reason:        reason,
			}, nil

		case StateFailed:
			return &model.MatchResult{
				TransactionID: tx.ID,
				MatchType:     model.MatchTypeUnmatched,
				Status:        model.MatchStatusFailed,
				Reason:        failureReason(m.failure),
			}, nil
		}
	}
}

// tryStage runs the current stage and transitions the machine.
func (c *Cascade) tryStage(ctx context.Context, m *machine, tx *model.TransactionAddress) {
	stage := c.stages[m.stageIdx]

	candidate, err := stage.Try(ctx, tx)
	switch {
	case err != nil && errors.Is(err, internalErrors.ErrExternalUnavailable):
		// The external collaborator could not answer. An operational
		// failure, not a data-quality miss.
		m.failure = err
		m.state = StateFailed
		return
	case err != nil && (errors.Is(err, internalErrors.ErrMalformedInput) || errors.Is(err, internalErrors.ErrEmbeddingProvider)):
		// The stage could not run for this record; skip it and keep
		// cascading.
		m.lastReason = fmt.Sprintf("%s stage skipped: %v", stage.Type(), err)
		m.state = c.nextTryState(m, m.stageIdx+1)
		return
	case err != nil:
		m.failure = err
		m.state = StateFailed
		return
	case candidate == nil:
		m.state = c.nextTryState(m, m.stageIdx+1)
		return
	case !strategy.UnitGate(tx, &candidate.Canonical):
		// A textually perfect match with the wrong unit is not a match.
		// Discard and continue.
		m.lastReason = fmt.Sprintf("%s candidate %s rejected by unit gate", stage.Type(), candidate.Canonical.ID)
		m.state = c.nextTryState(m, m.stageIdx+1)
		return
	}

	m.accepted = candidate
	m.acceptedBy = stage.Type()
	m.state = StateResolved
}

// nextTryState positions the machine at stage idx, or at Unmatched when the
// stages are exhausted.
func (c *Cascade) nextTryState(m *machine, idx int) State {
	if idx >= len(c.stages) {
		return StateUnmatched
	}
	m.stageIdx = idx
	return stageStates[idx]
}

// failureReason preserves the external failure subtype for run telemetry.
func failureReason(err error) string {
	var lookupErr *internalErrors.ExternalLookupError
	if errors.As(err, &lookupErr) {
		return lookupErr.Reason
	}
	return "external_unavailable"
}

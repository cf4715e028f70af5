package model

import "time"

// RunSummary aggregates the outcome of one batch run across all transactions.
// Failed lookups are counted separately from unmatched so telemetry can
// distinguish service outages from data-quality misses.
type RunSummary struct {
	Transactions   int               `json:"transactions"`
	ByType         map[MatchType]int `json:"by_type"`
	Failed         int               `json:"failed"`
	FailureReasons map[string]int    `json:"failure_reasons,omitempty"` // external failure subtype -> count
	Duration       time.Duration     `json:"duration_ns"`
}

// RunReport is the persisted output of a batch run: one result per input
// transaction (in input order) plus the aggregate summary.
type RunReport struct {
	RunID       string        `json:"run_id"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
	Results     []MatchResult `json:"results"`
	Summary     RunSummary    `json:"summary"`
}

// Unmatched returns only the results that ended without an accepted match,
// the shape exported as the unmatched report.
func (r *RunReport) Unmatched() []MatchResult {
	var out []MatchResult
	for _, res := range r.Results {
		if !res.Matched() {
			out = append(out, res)
		}
	}
	return out
}

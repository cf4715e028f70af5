package model

// TransactionAddress is one parsed source record to be matched against the
// canonical registry. All fields arrive normalized by the upstream parser
// (upper-cased, whitespace-collapsed, abbreviations expanded); the matcher
// never re-normalizes them beyond what individual strategies require.
type TransactionAddress struct {
	ID          string `json:"id"`
	HouseNumber string `json:"house_number"`
	PreDir      string `json:"predir,omitempty"`
	StreetName  string `json:"street_name"`
	StreetType  string `json:"street_type,omitempty"`
	PostDir     string `json:"postdir,omitempty"`
	UnitType    string `json:"unit_type,omitempty"`
	Unit        string `json:"unit,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	ZIP         string `json:"zip,omitempty"`
	RawAddress  string `json:"raw_address,omitempty"` // original text, only used for external lookup
}

// CanonicalAddress is one registry entry. The registry is loaded once per run
// and treated as a read-only snapshot; the matcher never mutates it.
type CanonicalAddress struct {
	ID          string `json:"id"`
	HouseNumber string `json:"house_number"`
	PreDir      string `json:"predir,omitempty"`
	StreetName  string `json:"street_name"`
	StreetType  string `json:"street_type,omitempty"`
	PostDir     string `json:"postdir,omitempty"`
	UnitType    string `json:"unit_type,omitempty"`
	Unit        string `json:"unit,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	ZIP         string `json:"zip,omitempty"`
	FullAddress string `json:"full_address,omitempty"` // registry's assembled display string
	OwnerName   string `json:"owner_name,omitempty"`   // occupant metadata, never compared
}

// MatchType identifies which strategy produced a match result.
type MatchType string

const (
	MatchTypeExact     MatchType = "exact"
	MatchTypeFuzzy     MatchType = "fuzzy"
	MatchTypePhonetic  MatchType = "phonetic"
	MatchTypeEmbedding MatchType = "embedding"
	MatchTypeExternal  MatchType = "external"
	MatchTypeUnmatched MatchType = "unmatched"
)

// MatchStatus is the terminal state of a transaction's cascade.
type MatchStatus string

const (
	// MatchStatusResolved means a strategy accepted a candidate.
	MatchStatusResolved MatchStatus = "resolved"
	// MatchStatusUnmatched means every strategy was exhausted without an
	// accepted candidate. This is a valid business outcome, not an error.
	MatchStatusUnmatched MatchStatus = "unmatched"
	// MatchStatusFailed means the external lookup was unavailable (network,
	// quota, auth). Kept distinct from unmatched so service outages are not
	// reported as data-quality misses.
	MatchStatusFailed MatchStatus = "failed"
)

// MatchResult is the single output record for one transaction. Exactly one
// exists per transaction after a run; a re-run overwrites, never appends.
type MatchResult struct {
	TransactionID  string      `json:"transaction_id"`
	CanonicalID    string      `json:"canonical_id,omitempty"` // empty means no match
	MatchedAddress string      `json:"matched_address,omitempty"`
	Confidence     float64     `json:"confidence"`
	MatchType      MatchType   `json:"match_type"`
	Status         MatchStatus `json:"status"`
	Reason         string      `json:"reason,omitempty"`
}

// Matched reports whether the result carries an accepted canonical identifier.
func (r *MatchResult) Matched() bool {
	return r.CanonicalID != ""
}

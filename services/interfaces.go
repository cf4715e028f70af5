package services

import (
	"context"

	"github.com/gcbaptista/go-address-matcher/config"
	"github.com/gcbaptista/go-address-matcher/model"
)

// GeocodeResult is the authoritative address an external lookup resolved a
// raw address string to. Fields are normalized the same way registry fields
// are.
type GeocodeResult struct {
	HouseNumber string `json:"house_number"`
	PreDir      string `json:"pre_dir"`
	StreetName  string `json:"street_name"`
	StreetType  string `json:"street_type"`
	PostDir     string `json:"post_dir"`
	Unit        string `json:"unit"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZIP         string `json:"zip"`

	// Accuracy is the provider's confidence in the decomposition. Providers
	// report it on varying scales, so consumers clamp it to [0,1].
	Accuracy float64 `json:"accuracy"`
}

// GeocodeClient resolves a raw address string against an external
// authoritative service. A nil result with a nil error means the service
// answered but found nothing; operational failures return an
// ExternalLookupError.
type GeocodeClient interface {
	Lookup(ctx context.Context, rawAddress string) (*GeocodeResult, error)
}

// Embedder produces a semantic vector for an address string.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Matcher resolves a single transaction against the canonical registry.
type Matcher interface {
	MatchOne(ctx context.Context, tx *model.TransactionAddress) (*model.MatchResult, error)
}

// RunManager defines operations for executing and inspecting match runs
type RunManager interface {
	StartRun(transactions []model.TransactionAddress) (string, error) // Returns job ID
	GetReport(runID string) (*model.RunReport, error)
}

// RegistryManager manages the canonical registry snapshot
type RegistryManager interface {
	ReplaceRegistry(addresses []model.CanonicalAddress) error
	GetCanonicalAddress(id string) (model.CanonicalAddress, bool)
	RegistryStats() RegistryStats
	Settings() config.MatcherSettings
}

// RegistryStats describes the loaded registry and its blocking index.
type RegistryStats struct {
	Addresses int            `json:"addresses"`
	BlockKeys map[string]int `json:"block_keys"` // Blocking scheme name to distinct key count
}

// JobManager defines operations for managing background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(status *model.JobStatus) []*model.Job
}

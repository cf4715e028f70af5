// Package testing provides utilities and helpers for testing the address matcher.
package testing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-address-matcher/config"
	"github.com/gcbaptista/go-address-matcher/internal/engine"
	"github.com/gcbaptista/go-address-matcher/model"
)

// CreateTestEngine creates an engine instance for testing with automatic
// cleanup. External collaborators are nil so the external and embedding
// stages skip themselves unless a test injects its own.
func CreateTestEngine(t *testing.T) *engine.Engine {
	t.Helper()

	eng, err := engine.NewEngine(t.TempDir(), config.MatcherSettings{}, nil, nil)
	require.NoError(t, err, "Failed to create test engine")
	t.Cleanup(eng.Stop)

	return eng
}

// SampleRegistry returns a small canonical registry covering the interesting
// shapes: two unit-distinguished entries at the same street address plus an
// unrelated one.
func SampleRegistry() []model.CanonicalAddress {
	return []model.CanonicalAddress{
		{
			ID:          "c1",
			HouseNumber: "123",
			StreetName:  "BEDFORD",
			StreetType:  "AVENUE",
			UnitType:    "APT",
			Unit:        "4B",
			City:        "BROOKLYN",
			State:       "NY",
			ZIP:         "11211",
			FullAddress: "123 BEDFORD AVENUE APT 4B",
		},
		{
			ID:          "c2",
			HouseNumber: "123",
			StreetName:  "BEDFORD",
			StreetType:  "AVENUE",
			UnitType:    "APT",
			Unit:        "5C",
			City:        "BROOKLYN",
			State:       "NY",
			ZIP:         "11211",
			FullAddress: "123 BEDFORD AVENUE APT 5C",
		},
		{
			ID:          "c3",
			HouseNumber: "500",
			StreetName:  "MAIN",
			StreetType:  "STREET",
			City:        "BROOKLYN",
			State:       "NY",
			ZIP:         "11201",
			FullAddress: "500 MAIN STREET",
		},
	}
}

// LoadSampleRegistry installs SampleRegistry into the engine.
func LoadSampleRegistry(t *testing.T, eng *engine.Engine) []model.CanonicalAddress {
	t.Helper()

	registry := SampleRegistry()
	require.NoError(t, eng.ReplaceRegistry(registry), "Failed to load test registry")
	return registry
}

// WaitForJob polls until the job reaches a terminal status or the deadline
// expires.
func WaitForJob(t *testing.T, eng *engine.Engine, jobID string) *model.Job {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := eng.GetJob(jobID)
		require.NoError(t, err, "Failed to fetch job %s", jobID)
		switch job.Status {
		case model.JobStatusCompleted, model.JobStatusFailed, model.JobStatusCancelled:
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish in time", jobID)
	return nil
}

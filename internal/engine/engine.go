// Package engine wires the registry, blocking index, and strategy cascade
// into the matcher service: single-address matching, background match runs,
// and registry snapshot management.
package engine

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/gcbaptista/go-address-matcher/config"
	"github.com/gcbaptista/go-address-matcher/index"
	"github.com/gcbaptista/go-address-matcher/internal/cascade"
	"github.com/gcbaptista/go-address-matcher/internal/embedding"
	internalErrors "github.com/gcbaptista/go-address-matcher/internal/errors"
	"github.com/gcbaptista/go-address-matcher/internal/jobs"
	"github.com/gcbaptista/go-address-matcher/internal/metrics"
	"github.com/gcbaptista/go-address-matcher/internal/persistence"
	"github.com/gcbaptista/go-address-matcher/internal/strategy"
	"github.com/gcbaptista/go-address-matcher/model"
	"github.com/gcbaptista/go-address-matcher/services"
	"github.com/gcbaptista/go-address-matcher/store"
)

const (
	dataDirPerm   = 0755
	registryFile  = "registry.gob"
	runsDir       = "runs"
	vectorCacheSz = 100000
)

// Engine owns the canonical registry, its blocking index, and the run
// machinery. It implements services.Matcher, services.RunManager, and
// services.RegistryManager.
type Engine struct {
	mu       sync.RWMutex
	registry *store.RegistryStore
	blocks   *index.BlockingIndex
	settings config.MatcherSettings
	dataDir  string

	geocoder services.GeocodeClient
	embedder *embedding.VectorCache

	jobManager *jobs.Manager

	runsMu sync.RWMutex
	runs   map[string]*model.RunReport
}

// NewEngine creates the matcher engine, loading a previously persisted
// registry snapshot from dataDir when one exists. geocoder and embedder may
// be nil; the corresponding cascade stages then skip themselves.
func NewEngine(dataDir string, settings config.MatcherSettings, geocoder services.GeocodeClient, embedder services.Embedder) (*Engine, error) {
	settings.ApplyDefaults()
	if problems := settings.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid matcher settings: %v", problems)
	}

	if err := os.MkdirAll(dataDir, dataDirPerm); err != nil {
		log.Printf("Warning: Could not create data directory %s: %v. Proceeding without persistence.", dataDir, err)
	}

	eng := &Engine{
		registry:   store.NewRegistryStore(),
		blocks:     index.NewBlockingIndex(nil),
		settings:   settings,
		dataDir:    dataDir,
		geocoder:   geocoder,
		jobManager: jobs.NewManager(settings.MaxWorkers),
		runs:       make(map[string]*model.RunReport),
	}
	if embedder != nil {
		eng.embedder = embedding.NewVectorCache(embedder, vectorCacheSz)
	}

	eng.loadRegistryFromDisk()
	eng.jobManager.Start()
	return eng, nil
}

// Stop shuts down the engine's background job machinery.
func (e *Engine) Stop() {
	e.jobManager.Stop()
}

func (e *Engine) loadRegistryFromDisk() {
	registryPath := filepath.Join(e.dataDir, registryFile)
	loaded := store.NewRegistryStore()
	if err := persistence.LoadGob(registryPath, loaded); err != nil {
		if err == os.ErrNotExist {
			log.Printf("Info: Registry file %s not found. Starting with an empty registry.", registryPath)
		} else {
			log.Printf("Warning: Failed to load registry from %s: %v. Starting with an empty registry.", registryPath, err)
		}
		return
	}

	e.registry = loaded
	e.blocks = index.NewBlockingIndex(loaded.Snapshot())
	metrics.SetRegistrySize(loaded.Len())
	log.Printf("Loaded registry of %d canonical addresses from disk", loaded.Len())
}

// ReplaceRegistry installs a new canonical registry snapshot, rebuilds the
// blocking index, invalidates cached canonical vectors, and persists the
// snapshot.
func (e *Engine) ReplaceRegistry(addresses []model.CanonicalAddress) error {
	newBlocks := index.NewBlockingIndex(addresses)

	e.mu.Lock()
	e.registry.Replace(addresses)
	e.blocks = newBlocks
	e.mu.Unlock()

	if e.embedder != nil {
		e.embedder.Clear()
	}
	metrics.SetRegistrySize(len(addresses))

	registryPath := filepath.Join(e.dataDir, registryFile)
	if err := persistence.SaveGob(registryPath, e.registry); err != nil {
		log.Printf("CRITICAL: Failed to persist registry snapshot. In-memory registry updated, but disk is stale: %v", err)
		return fmt.Errorf("failed to save registry snapshot: %w", err)
	}

	log.Printf("Registry replaced with %d canonical addresses", len(addresses))
	return nil
}

// Settings returns a copy of the matcher settings.
func (e *Engine) Settings() config.MatcherSettings {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.settings
}

// GetCanonicalAddress returns the registry entry with the given canonical ID.
func (e *Engine) GetCanonicalAddress(id string) (model.CanonicalAddress, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.GetByID(id)
}

// RegistryStats describes the loaded registry and its blocking keys.
func (e *Engine) RegistryStats() services.RegistryStats {
	e.mu.RLock()
	defer e.mu.RUnlock()

	keys := make(map[string]int, len(index.Schemes))
	for _, scheme := range index.Schemes {
		keys[string(scheme)] = e.blocks.KeyCount(scheme)
	}
	return services.RegistryStats{
		Addresses: e.registry.Len(),
		BlockKeys: keys,
	}
}

// snapshot captures the registry slice and index a run will use, so a
// concurrent ReplaceRegistry never changes inputs mid-run.
func (e *Engine) snapshot() ([]model.CanonicalAddress, *index.BlockingIndex, config.MatcherSettings) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.registry.Snapshot(), e.blocks, e.settings
}

// newCascade builds the five-stage cascade over a registry snapshot.
func (e *Engine) newCascade(registry []model.CanonicalAddress, blocks *index.BlockingIndex, settings config.MatcherSettings, geocoder services.GeocodeClient) *cascade.Cascade {
	var embedder services.Embedder
	if e.embedder != nil {
		embedder = e.embedder
	}
	return cascade.New(
		strategy.NewExact(registry, blocks),
		strategy.NewFuzzy(registry, blocks, &settings),
		strategy.NewPhonetic(registry, blocks, &settings),
		strategy.NewEmbedding(registry, blocks, &settings, embedder),
		strategy.NewExternal(registry, blocks, geocoder),
	)
}

// MatchOne resolves a single transaction against the current registry
// snapshot. The registry must be loaded and produce at least one blocking
// key; anything else is a configuration error, not a data-quality miss.
func (e *Engine) MatchOne(ctx context.Context, tx *model.TransactionAddress) (*model.MatchResult, error) {
	registry, blocks, settings := e.snapshot()
	if err := validateRegistry(registry, blocks); err != nil {
		return nil, err
	}

	result, err := e.newCascade(registry, blocks, settings, e.geocoder).Run(ctx, tx)
	if err != nil {
		return nil, err
	}
	metrics.ObserveResult(result)
	return result, nil
}

// GetJob exposes background job state. Implements services.JobManager.
func (e *Engine) GetJob(jobID string) (*model.Job, error) {
	return e.jobManager.GetJob(jobID)
}

// ListJobs lists background jobs, optionally filtered by status.
func (e *Engine) ListJobs(status *model.JobStatus) []*model.Job {
	return e.jobManager.ListJobs(status)
}

// JobMetrics returns background job performance metrics.
func (e *Engine) JobMetrics() jobs.JobMetricsData {
	return e.jobManager.GetMetrics()
}

// JobSuccessRate returns the overall job success rate.
func (e *Engine) JobSuccessRate() float64 {
	return e.jobManager.GetJobSuccessRate()
}

// CurrentWorkload returns the number of currently active jobs.
func (e *Engine) CurrentWorkload() int64 {
	return e.jobManager.GetCurrentWorkload()
}

// validateRegistry checks the fatal run-start conditions: a loaded registry
// and at least one usable blocking key.
func validateRegistry(registry []model.CanonicalAddress, blocks *index.BlockingIndex) error {
	if len(registry) == 0 {
		return internalErrors.ErrRegistryEmpty
	}
	for _, scheme := range index.Schemes {
		if blocks.KeyCount(scheme) > 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: registry produced zero blocking keys", internalErrors.ErrRegistryEmpty)
}

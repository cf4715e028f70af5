package engine

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/gcbaptista/go-address-matcher/config"
	"github.com/gcbaptista/go-address-matcher/index"
	internalErrors "github.com/gcbaptista/go-address-matcher/internal/errors"
	"github.com/gcbaptista/go-address-matcher/internal/metrics"
	"github.com/gcbaptista/go-address-matcher/internal/persistence"
	"github.com/gcbaptista/go-address-matcher/model"
	"github.com/gcbaptista/go-address-matcher/services"
)

const (
	progressEvery = 50
	reportFile    = "report.gob"
)

// limitedGeocoder caps in-flight external lookups independently of the
// worker pool and applies the per-call timeout. The external collaborator
// enforces a daily quota; a full worker pool of simultaneous lookups would
// burn through it.
type limitedGeocoder struct {
	inner   services.GeocodeClient
	sem     *semaphore.Weighted
	timeout time.Duration
}

func (g *limitedGeocoder) Lookup(ctx context.Context, rawAddress string) (*services.GeocodeResult, error) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer g.sem.Release(1)

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()
	return g.inner.Lookup(callCtx, rawAddress)
}

// StartRun launches a background match run over the given transactions and
// returns its job ID. The registry snapshot is captured at start; a
// concurrent registry replacement does not affect a running batch.
func (e *Engine) StartRun(transactions []model.TransactionAddress) (string, error) {
	registry, blocks, settings := e.snapshot()
	if err := validateRegistry(registry, blocks); err != nil {
		return "", err
	}

	jobID := e.jobManager.CreateJob(model.JobTypeMatchRun, map[string]string{
		"transactions": strconv.Itoa(len(transactions)),
	})

	err := e.jobManager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return e.executeRun(ctx, jobID, registry, blocks, settings, transactions)
	})
	if err != nil {
		return "", err
	}
	return jobID, nil
}

func (e *Engine) executeRun(ctx context.Context, runID string, registry []model.CanonicalAddress, blocks *index.BlockingIndex, settings config.MatcherSettings, transactions []model.TransactionAddress) error {
	startedAt := time.Now()

	geocoder := e.geocoder
	if geocoder != nil {
		geocoder = &limitedGeocoder{
			inner:   geocoder,
			sem:     semaphore.NewWeighted(int64(settings.ExternalConcurrency)),
			timeout: settings.ExternalTimeout,
		}
	}
	casc := e.newCascade(registry, blocks, settings, geocoder)

	// One result slot per transaction position; workers never share slots,
	// so no locking is needed around the results slice.
	results := make([]model.MatchResult, len(transactions))
	var processed atomic.Int64

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(settings.MaxWorkers)
	for i := range transactions {
		i := i
		group.Go(func() error {
			result, err := casc.Run(groupCtx, &transactions[i])
			if err != nil {
				return err
			}
			results[i] = *result
			metrics.ObserveResult(result)

			if n := processed.Add(1); n%progressEvery == 0 || int(n) == len(transactions) {
				e.jobManager.UpdateJobProgress(runID, int(n), len(transactions), "matching transactions")
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return fmt.Errorf("match run aborted: %w", err)
	}

	completedAt := time.Now()
	report := &model.RunReport{
		RunID:       runID,
		StartedAt:   startedAt,
		CompletedAt: completedAt,
		Results:     results,
		Summary:     summarize(results, completedAt.Sub(startedAt)),
	}

	e.runsMu.Lock()
	e.runs[runID] = report
	e.runsMu.Unlock()

	metrics.ObserveRun(report.Summary.Duration.Seconds())
	e.exportRun(report)

	log.Printf("Run %s completed: %d transactions, %d matched, %d failed in %v",
		runID, report.Summary.Transactions,
		matchedCount(report.Summary), report.Summary.Failed, report.Summary.Duration)
	return nil
}

// GetReport returns the report of a completed run. Reports from before the
// last restart are read back from their gob snapshot.
func (e *Engine) GetReport(runID string) (*model.RunReport, error) {
	e.runsMu.RLock()
	report, exists := e.runs[runID]
	e.runsMu.RUnlock()
	if exists {
		return report, nil
	}

	// Run IDs are job UUIDs; anything else never has a snapshot on disk.
	if uuid.Validate(runID) != nil {
		return nil, internalErrors.NewRunNotFoundError(runID)
	}
	loaded := &model.RunReport{}
	if err := persistence.LoadGob(filepath.Join(e.dataDir, runsDir, runID, reportFile), loaded); err != nil {
		return nil, internalErrors.NewRunNotFoundError(runID)
	}

	e.runsMu.Lock()
	e.runs[runID] = loaded
	e.runsMu.Unlock()
	return loaded, nil
}

// exportRun persists the run report as a gob snapshot and writes the
// matched CSV and unmatched JSON exports next to it. Export failures are
// logged, not fatal; the in-memory report already exists.
func (e *Engine) exportRun(report *model.RunReport) {
	runDir := filepath.Join(e.dataDir, runsDir, report.RunID)
	if err := persistence.SaveGob(filepath.Join(runDir, reportFile), report); err != nil {
		log.Printf("Warning: Failed to persist report for run %s: %v", report.RunID, err)
	}
	if err := persistence.WriteMatchedCSV(filepath.Join(runDir, "matched_output.csv"), report.Results); err != nil {
		log.Printf("Warning: Failed to export matched CSV for run %s: %v", report.RunID, err)
	}
	if err := persistence.WriteUnmatchedReport(filepath.Join(runDir, "unmatched_report.json"), report.Results); err != nil {
		log.Printf("Warning: Failed to export unmatched report for run %s: %v", report.RunID, err)
	}
}

// summarize aggregates per-type counts and failure subtypes.
func summarize(results []model.MatchResult, duration time.Duration) model.RunSummary {
	summary := model.RunSummary{
		Transactions:   len(results),
		ByType:         make(map[model.MatchType]int),
		FailureReasons: make(map[string]int),
		Duration:       duration,
	}
	for i := range results {
		result := &results[i]
		summary.ByType[result.MatchType]++
		if result.Status == model.MatchStatusFailed {
			summary.Failed++
			summary.FailureReasons[result.Reason]++
		}
	}
	return summary
}

func matchedCount(summary model.RunSummary) int {
	matched := 0
	for matchType, count := range summary.ByType {
		if matchType != model.MatchTypeUnmatched {
			matched += count
		}
	}
	return matched
}

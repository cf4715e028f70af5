package engine

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/gcbaptista/go-address-matcher/config"
	internalErrors "github.com/gcbaptista/go-address-matcher/internal/errors"
	"github.com/gcbaptista/go-address-matcher/model"
	"github.com/gcbaptista/go-address-matcher/services"
)

// scriptedGeocoder answers deterministically by raw address text.
type scriptedGeocoder struct {
	results map[string]*services.GeocodeResult
	errs    map[string]error
}

func (s *scriptedGeocoder) Lookup(_ context.Context, rawAddress string) (*services.GeocodeResult, error) {
	if err, ok := s.errs[rawAddress]; ok {
		return nil, err
	}
	return s.results[rawAddress], nil
}

func testRegistry() []model.CanonicalAddress {
	return []model.CanonicalAddress{
		{ID: "c1", HouseNumber: "123", StreetName: "BEDFORD", StreetType: "AVENUE", Unit: "4B", FullAddress: "123 BEDFORD AVENUE 4B"},
		{ID: "c2", HouseNumber: "123", StreetName: "BEDFORD", StreetType: "AVENUE", Unit: "5C", FullAddress: "123 BEDFORD AVENUE 5C"},
		{ID: "c3", HouseNumber: "500", StreetName: "MAIN", StreetType: "STREET", FullAddress: "500 MAIN STREET"},
	}
}

func newTestEngine(t *testing.T, geocoder services.GeocodeClient) *Engine {
	t.Helper()
	eng, err := NewEngine(t.TempDir(), config.MatcherSettings{}, geocoder, nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	t.Cleanup(eng.Stop)
	if err := eng.ReplaceRegistry(testRegistry()); err != nil {
		t.Fatalf("ReplaceRegistry failed: %v", err)
	}
	return eng
}

func waitForJob(t *testing.T, eng *Engine, jobID string) *model.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := eng.GetJob(jobID)
		if err != nil {
			t.Fatalf("GetJob failed: %v", err)
		}
		if job.Status == model.JobStatusCompleted || job.Status == model.JobStatusFailed {
			return job
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job did not finish in time")
	return nil
}

func TestMatchOneExact(t *testing.T) {
	eng := newTestEngine(t, nil)

	tx := &model.TransactionAddress{ID: "t1", HouseNumber: "123", StreetName: "BEDFORD", StreetType: "AVENUE", Unit: "4B"}
	result, err := eng.MatchOne(context.Background(), tx)
	if err != nil {
		t.Fatalf("MatchOne failed: %v", err)
	}
	if result.MatchType != model.MatchTypeExact || result.CanonicalID != "c1" {
		t.Errorf("result = %+v, want exact c1", result)
	}
}

func TestMatchOneUnitGateAcrossDuplicates(t *testing.T) {
	eng := newTestEngine(t, nil)

	// Two entries differ only by unit; a transaction without a unit matches
	// neither.
	tx := &model.TransactionAddress{ID: "t1", HouseNumber: "123", StreetName: "BEDFORD", StreetType: "AVENUE"}
	result, err := eng.MatchOne(context.Background(), tx)
	if err != nil {
		t.Fatalf("MatchOne failed: %v", err)
	}
	if result.Matched() {
		t.Errorf("result = %+v, want unmatched across unit-only duplicates", result)
	}
}

func TestMatchOneEmptyRegistryIsFatal(t *testing.T) {
	eng, err := NewEngine(t.TempDir(), config.MatcherSettings{}, nil, nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	defer eng.Stop()

	tx := &model.TransactionAddress{ID: "t1", HouseNumber: "123", StreetName: "BEDFORD"}
	if _, err := eng.MatchOne(context.Background(), tx); !errors.Is(err, internalErrors.ErrRegistryEmpty) {
		t.Errorf("expected ErrRegistryEmpty, got %v", err)
	}
}

func TestStartRunProducesReport(t *testing.T) {
	geocoder := &scriptedGeocoder{
		errs: map[string]error{
			"999 Unknowable Way": internalErrors.NewExternalLookupError(internalErrors.ReasonRateLimited, "quota"),
		},
	}
	eng := newTestEngine(t, geocoder)

	transactions := []model.TransactionAddress{
		{ID: "t1", HouseNumber: "123", StreetName: "BEDFORD", StreetType: "AVENUE", Unit: "4B"},
		{ID: "t2", HouseNumber: "123", StreetName: "BEDFRD", StreetType: "AVENUE", Unit: "5C"},
		{ID: "t3", HouseNumber: "999", StreetName: "UNKNOWABLE", RawAddress: "999 Unknowable Way"},
	}

	runID, err := eng.StartRun(transactions)
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	job := waitForJob(t, eng, runID)
	if job.Status != model.JobStatusCompleted {
		t.Fatalf("job status = %s (%s), want completed", job.Status, job.Error)
	}

	report, err := eng.GetReport(runID)
	if err != nil {
		t.Fatalf("GetReport failed: %v", err)
	}

	if len(report.Results) != len(transactions) {
		t.Fatalf("report has %d results, want %d", len(report.Results), len(transactions))
	}
	// Results stay in input order regardless of worker scheduling.
	if report.Results[0].TransactionID != "t1" || report.Results[2].TransactionID != "t3" {
		t.Errorf("results out of input order: %+v", report.Results)
	}

	if report.Results[0].MatchType != model.MatchTypeExact {
		t.Errorf("t1 = %+v, want exact", report.Results[0])
	}
	// Fuzzy ties between the two Bedford entries and proposes the first,
	// which the unit gate rejects; the phonetic stage then lands on the
	// entry with the matching unit.
	if report.Results[1].MatchType != model.MatchTypePhonetic || report.Results[1].CanonicalID != "c2" {
		t.Errorf("t2 = %+v, want phonetic c2", report.Results[1])
	}
	if report.Results[2].Status != model.MatchStatusFailed {
		t.Errorf("t3 = %+v, want failed on rate limit", report.Results[2])
	}

	summary := report.Summary
	if summary.Transactions != 3 || summary.Failed != 1 {
		t.Errorf("summary = %+v", summary)
	}
	if summary.ByType[model.MatchTypeExact] != 1 || summary.ByType[model.MatchTypePhonetic] != 1 {
		t.Errorf("summary by type = %+v", summary.ByType)
	}
	if summary.FailureReasons[internalErrors.ReasonRateLimited] != 1 {
		t.Errorf("failure reasons = %+v", summary.FailureReasons)
	}
}

func TestRunsAreDeterministic(t *testing.T) {
	eng := newTestEngine(t, nil)

	transactions := []model.TransactionAddress{
		{ID: "t1", HouseNumber: "123", StreetName: "BEDFORD", StreetType: "AVENUE", Unit: "4B"},
		{ID: "t2", HouseNumber: "123", StreetName: "BEDFERD", StreetType: "AVENUE", Unit: "5C"},
		{ID: "t3", HouseNumber: "500", StreetName: "MAIN", StreetType: "STREET"},
		{ID: "t4", HouseNumber: "777", StreetName: "NOWHERE"},
	}

	first, err := eng.StartRun(transactions)
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	waitForJob(t, eng, first)

	second, err := eng.StartRun(transactions)
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	waitForJob(t, eng, second)

	firstReport, _ := eng.GetReport(first)
	secondReport, _ := eng.GetReport(second)
	if !reflect.DeepEqual(firstReport.Results, secondReport.Results) {
		t.Errorf("repeated runs differ:\n%+v\n%+v", firstReport.Results, secondReport.Results)
	}
}

func TestStartRunEmptyRegistry(t *testing.T) {
	eng, err := NewEngine(t.TempDir(), config.MatcherSettings{}, nil, nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	defer eng.Stop()

	_, err = eng.StartRun([]model.TransactionAddress{{ID: "t1"}})
	if !errors.Is(err, internalErrors.ErrRegistryEmpty) {
		t.Errorf("expected ErrRegistryEmpty, got %v", err)
	}
}

func TestGetReportNotFound(t *testing.T) {
	eng := newTestEngine(t, nil)

	_, err := eng.GetReport("missing-run")
	if !errors.Is(err, internalErrors.ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestRegistryStats(t *testing.T) {
	eng := newTestEngine(t, nil)

	stats := eng.RegistryStats()
	if stats.Addresses != 3 {
		t.Errorf("stats.Addresses = %d, want 3", stats.Addresses)
	}
	if stats.BlockKeys["by_house_number"] != 2 {
		t.Errorf("by_house_number keys = %d, want 2", stats.BlockKeys["by_house_number"])
	}
}

func TestRegistryPersistsAcrossRestart(t *testing.T) {
	dataDir := t.TempDir()

	eng, err := NewEngine(dataDir, config.MatcherSettings{}, nil, nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if err := eng.ReplaceRegistry(testRegistry()); err != nil {
		t.Fatalf("ReplaceRegistry failed: %v", err)
	}
	eng.Stop()

	reloaded, err := NewEngine(dataDir, config.MatcherSettings{}, nil, nil)
	if err != nil {
		t.Fatalf("NewEngine (reload) failed: %v", err)
	}
	defer reloaded.Stop()

	if stats := reloaded.RegistryStats(); stats.Addresses != 3 {
		t.Errorf("reloaded registry has %d addresses, want 3", stats.Addresses)
	}
}

func TestReportPersistsAcrossRestart(t *testing.T) {
	dataDir := t.TempDir()

	eng, err := NewEngine(dataDir, config.MatcherSettings{}, nil, nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	if err := eng.ReplaceRegistry(testRegistry()); err != nil {
		t.Fatalf("ReplaceRegistry failed: %v", err)
	}

	transactions := []model.TransactionAddress{
		{ID: "t1", HouseNumber: "500", StreetName: "MAIN", StreetType: "STREET"},
	}
	runID, err := eng.StartRun(transactions)
	if err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	waitForJob(t, eng, runID)
	eng.Stop()

	reloaded, err := NewEngine(dataDir, config.MatcherSettings{}, nil, nil)
	if err != nil {
		t.Fatalf("NewEngine (reload) failed: %v", err)
	}
	defer reloaded.Stop()

	report, err := reloaded.GetReport(runID)
	if err != nil {
		t.Fatalf("GetReport after restart failed: %v", err)
	}
	if len(report.Results) != 1 || report.Results[0].CanonicalID != "c3" {
		t.Errorf("reloaded report = %+v, want one exact match of c3", report.Results)
	}
}

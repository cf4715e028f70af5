package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	internalErrors "github.com/gcbaptista/go-address-matcher/internal/errors"
	"github.com/gcbaptista/go-address-matcher/model"
)

func TestJobManager_CreateJob(t *testing.T) {
	manager := NewManager(2)
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeMatchRun, map[string]string{
		"transactions": "100",
	})

	if jobID == "" {
		t.Error("Expected non-empty job ID")
	}

	job, err := manager.GetJob(jobID)
	if err != nil {
		t.Fatalf("Failed to get created job: %v", err)
	}

	if job.Type != model.JobTypeMatchRun {
		t.Errorf("Expected job type %s, got %s", model.JobTypeMatchRun, job.Type)
	}

	if job.Status != model.JobStatusPending {
		t.Errorf("Expected job status %s, got %s", model.JobStatusPending, job.Status)
	}
}

func TestJobManager_GetJobNotFound(t *testing.T) {
	manager := NewManager(1)
	defer manager.Stop()

	_, err := manager.GetJob("no-such-job")
	if !errors.Is(err, internalErrors.ErrJobNotFound) {
		t.Errorf("Expected ErrJobNotFound, got %v", err)
	}
}

func TestJobManager_ExecuteJob(t *testing.T) {
	manager := NewManager(2)
	manager.Start()
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeMatchRun, nil)

	// Execute a simple job that updates progress
	err := manager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		manager.UpdateJobProgress(jobID, 50, 100, "Halfway done")
		time.Sleep(10 * time.Millisecond) // Simulate work
		manager.UpdateJobProgress(jobID, 100, 100, "Completed")
		return nil
	})

	if err != nil {
		t.Fatalf("Failed to execute job: %v", err)
	}

	// Wait a bit for job to complete
	time.Sleep(50 * time.Millisecond)

	job, err := manager.GetJob(jobID)
	if err != nil {
		t.Fatalf("Failed to get job after execution: %v", err)
	}

	if job.Status != model.JobStatusCompleted {
		t.Errorf("Expected job status %s, got %s", model.JobStatusCompleted, job.Status)
	}

	if job.Progress == nil {
		t.Error("Expected job progress to be set")
	} else {
		if job.Progress.Current != 100 {
			t.Errorf("Expected progress current 100, got %d", job.Progress.Current)
		}
		if job.Progress.Total != 100 {
			t.Errorf("Expected progress total 100, got %d", job.Progress.Total)
		}
	}
}

func TestJobManager_ExecuteJobFailure(t *testing.T) {
	manager := NewManager(1)
	manager.Start()
	defer manager.Stop()

	jobID := manager.CreateJob(model.JobTypeMatchRun, nil)

	err := manager.ExecuteJob(jobID, func(ctx context.Context, job *model.Job) error {
		return errors.New("run input unreadable")
	})
	if err != nil {
		t.Fatalf("Failed to execute job: %v", err)
	}

	time.Sleep(50 * time.Millisecond)

	job, err := manager.GetJob(jobID)
	if err != nil {
		t.Fatalf("Failed to get job after execution: %v", err)
	}
	if job.Status != model.JobStatusFailed {
		t.Errorf("Expected job status %s, got %s", model.JobStatusFailed, job.Status)
	}
	if job.Error == "" {
		t.Error("Expected job error message to be recorded")
	}
}

func TestJobManager_ListJobsByStatus(t *testing.T) {
	manager := NewManager(1)
	defer manager.Stop()

	manager.CreateJob(model.JobTypeMatchRun, nil)
	manager.CreateJob(model.JobTypeMatchRun, nil)

	pending := model.JobStatusPending
	jobs := manager.ListJobs(&pending)
	if len(jobs) != 2 {
		t.Errorf("Expected 2 pending jobs, got %d", len(jobs))
	}

	completed := model.JobStatusCompleted
	if got := manager.ListJobs(&completed); len(got) != 0 {
		t.Errorf("Expected 0 completed jobs, got %d", len(got))
	}
}

package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/go-address-matcher/internal/errors"
	"github.com/gcbaptista/go-address-matcher/model"
)

// StartRunHandler starts a batch match run over a list of transactions.
// Request Body: []model.TransactionAddress
// The run executes asynchronously; poll /runs/:jobId for progress and fetch
// /runs/:jobId/results once the job completes.
func (api *API) StartRunHandler(c *gin.Context) {
	var transactions []model.TransactionAddress
	if err := c.ShouldBindJSON(&transactions); err != nil {
		SendInvalidJSONError(c, err)
		return
	}

	if result := ValidateTransactions(transactions); result.HasErrors() {
		SendStructuredValidationError(c, result)
		return
	}

	jobID, err := api.engine.StartRun(transactions)
	if err != nil {
		if errors.Is(err, internalErrors.ErrRegistryEmpty) {
			SendRegistryEmptyError(c)
			return
		}
		SendJobExecutionError(c, "match run", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"status":            "accepted",
		"message":           fmt.Sprintf("Match run started (%d transactions)", len(transactions)),
		"job_id":            jobID,
		"transaction_count": len(transactions),
	})
}

// GetRunHandler returns the job status and progress of a run.
func (api *API) GetRunHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	job, err := api.engine.GetJob(jobID)
	if err != nil {
		SendJobNotFoundError(c, jobID)
		return
	}

	c.JSON(http.StatusOK, job)
}

// GetRunResultsHandler returns the full report of a completed run: one
// result per transaction plus the aggregate summary.
func (api *API) GetRunResultsHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	report, err := api.engine.GetReport(jobID)
	if err == nil {
		c.JSON(http.StatusOK, report)
		return
	}

	// No report yet. Distinguish an unknown run from one still executing.
	if job, jobErr := api.engine.GetJob(jobID); jobErr == nil {
		SendRunNotCompletedError(c, jobID, string(job.Status))
		return
	}
	SendRunNotFoundError(c, jobID)
}

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-address-matcher/internal/jobs"
	"github.com/gcbaptista/go-address-matcher/model"
)

// jobMetricsProvider is the optional engine surface exposing job
// performance metrics.
type jobMetricsProvider interface {
	JobMetrics() jobs.JobMetricsData
	JobSuccessRate() float64
	CurrentWorkload() int64
}

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	jobID := c.Param("jobId")

	job, err := api.engine.GetJob(jobID)
	if err != nil {
		SendJobNotFoundError(c, jobID)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobsHandler handles requests to list background jobs
func (api *API) ListJobsHandler(c *gin.Context) {
	statusParam := c.Query("status")

	var statusFilter *model.JobStatus
	if statusParam != "" {
		status := model.JobStatus(statusParam)
		statusFilter = &status
	}

	listing := api.engine.ListJobs(statusFilter)
	c.JSON(http.StatusOK, gin.H{
		"jobs":  listing,
		"total": len(listing),
	})
}

// GetJobMetricsHandler handles requests to get job performance metrics
func (api *API) GetJobMetricsHandler(c *gin.Context) {
	provider, ok := api.engine.(jobMetricsProvider)
	if !ok {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Job metrics not supported by this engine"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metrics":          provider.JobMetrics(),
		"success_rate":     provider.JobSuccessRate(),
		"current_workload": provider.CurrentWorkload(),
	})
}

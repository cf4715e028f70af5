package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gcbaptista/go-address-matcher/services"
)

// maxRequestBody caps registry uploads and batch run payloads.
const maxRequestBody = 64 << 20 // 64 MiB

// MatcherService is the engine surface the HTTP layer depends on.
type MatcherService interface {
	services.Matcher
	services.RunManager
	services.RegistryManager
	services.JobManager
}

// API holds dependencies for API handlers, primarily the matcher engine.
type API struct {
	engine MatcherService
}

// NewAPI creates a new API handler structure.
func NewAPI(engine MatcherService) *API {
	return &API{engine: engine}
}

// SetupRoutes defines all the API routes for the address matcher.
func SetupRoutes(router *gin.Engine, engine MatcherService) {
	apiHandler := NewAPI(engine)

	router.Use(RequestIDMiddleware())
	router.Use(RequestSizeLimitMiddleware(maxRequestBody))
	router.Use(CORSMiddleware())

	// Health check and prometheus scrape routes
	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Single-transaction matching
	router.POST("/match", apiHandler.MatchAddressHandler)

	// Batch run routes
	runRoutes := router.Group("/runs")
	{
		runRoutes.POST("", apiHandler.StartRunHandler)
		runRoutes.GET("/:jobId", apiHandler.GetRunHandler)
		runRoutes.GET("/:jobId/results", apiHandler.GetRunResultsHandler)
	}

	// Registry management routes
	registryRoutes := router.Group("/registry")
	{
		registryRoutes.PUT("", apiHandler.ReplaceRegistryHandler)
		registryRoutes.GET("/stats", apiHandler.RegistryStatsHandler)
		registryRoutes.GET("/:id", apiHandler.GetCanonicalAddressHandler)
	}

	// Matcher settings
	router.GET("/settings", apiHandler.GetSettingsHandler)

	// Background job routes
	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", apiHandler.ListJobsHandler)
		jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler)
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)
	}
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "go-address-matcher",
		"timestamp": fmt.Sprintf("%d", time.Now().Unix()),
	})
}

// GetSettingsHandler returns the active matcher settings.
func (api *API) GetSettingsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.engine.Settings())
}

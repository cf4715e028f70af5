package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeJobNotFound      ErrorCode = "JOB_NOT_FOUND"
	ErrorCodeRunNotFound      ErrorCode = "RUN_NOT_FOUND"
	ErrorCodeRunNotCompleted  ErrorCode = "RUN_NOT_COMPLETED"
	ErrorCodeAddressNotFound  ErrorCode = "ADDRESS_NOT_FOUND"
	ErrorCodeInvalidJSON      ErrorCode = "INVALID_JSON"
	ErrorCodeRegistryEmpty    ErrorCode = "REGISTRY_EMPTY"

	// Server Error Codes (5xx)
	ErrorCodeInternalError      ErrorCode = "INTERNAL_ERROR"
	ErrorCodeMatchFailed        ErrorCode = "MATCH_FAILED"
	ErrorCodeJobExecutionFailed ErrorCode = "JOB_EXECUTION_FAILED"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details...)

	// Add request ID if available
	if requestID, exists := c.Get("request_id"); exists {
		if id, ok := requestID.(string); ok {
			errorResponse.RequestID = id
		}
	}

	c.JSON(statusCode, errorResponse)
}

// SendStructuredValidationError sends a validation error with structured details
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    "VALIDATION_ERROR",
		}
	}

	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", details...)
}

// SendJobNotFoundError sends a standardized job not found error
func SendJobNotFoundError(c *gin.Context, jobID string) {
	SendError(c, http.StatusNotFound, ErrorCodeJobNotFound,
		"Job '"+jobID+"' not found")
}

// SendRunNotFoundError sends a standardized run not found error
func SendRunNotFoundError(c *gin.Context, runID string) {
	SendError(c, http.StatusNotFound, ErrorCodeRunNotFound,
		"Run '"+runID+"' not found")
}

// SendAddressNotFoundError reports that no registry entry carries the ID.
func SendAddressNotFoundError(c *gin.Context, id string) {
	SendError(c, http.StatusNotFound, ErrorCodeAddressNotFound,
		"Canonical address '"+id+"' not found")
}

// SendRunNotCompletedError reports that a run exists but has not finished,
// so its results are not available yet.
func SendRunNotCompletedError(c *gin.Context, runID, status string) {
	SendError(c, http.StatusConflict, ErrorCodeRunNotCompleted,
		"Run '"+runID+"' has not completed (status: "+status+")")
}

// SendRegistryEmptyError reports that no canonical registry is loaded.
func SendRegistryEmptyError(c *gin.Context) {
	SendError(c, http.StatusConflict, ErrorCodeRegistryEmpty,
		"No canonical registry loaded; load a registry before matching")
}

// SendInvalidJSONError sends a standardized invalid JSON error
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid JSON in request body: "+err.Error())
}

// SendInternalError sends a standardized internal server error
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"Internal error during "+operation+": "+err.Error())
}

// SendMatchError sends a standardized match failure error
func SendMatchError(c *gin.Context, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeMatchFailed,
		"Match failed: "+err.Error())
}

// SendJobExecutionError sends a standardized job execution error
func SendJobExecutionError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeJobExecutionFailed,
		"Failed to start "+operation+" job: "+err.Error())
}

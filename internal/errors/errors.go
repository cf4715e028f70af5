package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrRegistryEmpty is returned when matching is attempted against an
	// empty canonical registry
	ErrRegistryEmpty = errors.New("registry is empty")

	// ErrJobNotFound is returned when a job is not found
	ErrJobNotFound = errors.New("job not found")

	// ErrRunNotFound is returned when a match run is not found
	ErrRunNotFound = errors.New("run not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedInput is returned when a transaction record cannot be
	// used by a matching stage
	ErrMalformedInput = errors.New("malformed input")

	// ErrExternalUnavailable is returned when the external authoritative
	// lookup cannot produce an answer for operational reasons
	ErrExternalUnavailable = errors.New("external lookup unavailable")

	// ErrEmbeddingProvider is returned when the embedding provider fails
	ErrEmbeddingProvider = errors.New("embedding provider error")
)

// External lookup failure reasons carried by ExternalLookupError.
const (
	ReasonRateLimited     = "rate_limited"
	ReasonUnauthenticated = "unauthenticated"
	ReasonNetworkError    = "network_error"
)

// ExternalLookupError represents an operational external lookup failure with
// the reason preserved. A "not found" answer from the external service is not
// an error and is never represented by this type.
type ExternalLookupError struct {
	Reason string
	Detail string
}

func (e *ExternalLookupError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("external lookup unavailable (%s): %s", e.Reason, e.Detail)
	}
	return fmt.Sprintf("external lookup unavailable (%s)", e.Reason)
}

func (e *ExternalLookupError) Is(target error) bool {
	return target == ErrExternalUnavailable
}

// NewExternalLookupError creates a new ExternalLookupError
func NewExternalLookupError(reason, detail string) *ExternalLookupError {
	return &ExternalLookupError{Reason: reason, Detail: detail}
}

// MalformedInputError represents a transaction record a matching stage could
// not use, with the offending field named
type MalformedInputError struct {
	Field   string
	Message string
}

func (e *MalformedInputError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed input in field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("malformed input: %s", e.Message)
}

func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}

// NewMalformedInputError creates a new MalformedInputError
func NewMalformedInputError(field, message string) *MalformedInputError {
	return &MalformedInputError{Field: field, Message: message}
}

// EmbeddingProviderError represents an embedding provider failure with context
type EmbeddingProviderError struct {
	StatusCode int
	Detail     string
}

func (e *EmbeddingProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("embedding provider error (status %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("embedding provider error: %s", e.Detail)
}

func (e *EmbeddingProviderError) Is(target error) bool {
	return target == ErrEmbeddingProvider
}

// NewEmbeddingProviderError creates a new EmbeddingProviderError
func NewEmbeddingProviderError(statusCode int, detail string) *EmbeddingProviderError {
	return &EmbeddingProviderError{StatusCode: statusCode, Detail: detail}
}

// JobNotFoundError represents a job not found error with context
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job with ID '%s' not found", e.JobID)
}

func (e *JobNotFoundError) Is(target error) bool {
	return target == ErrJobNotFound
}

// NewJobNotFoundError creates a new JobNotFoundError
func NewJobNotFoundError(jobID string) *JobNotFoundError {
	return &JobNotFoundError{JobID: jobID}
}

// RunNotFoundError represents a match run not found error with context
type RunNotFoundError struct {
	RunID string
}

func (e *RunNotFoundError) Error() string {
	return fmt.Sprintf("run with ID '%s' not found", e.RunID)
}

func (e *RunNotFoundError) Is(target error) bool {
	return target == ErrRunNotFound
}

// NewRunNotFoundError creates a new RunNotFoundError
func NewRunNotFoundError(runID string) *RunNotFoundError {
	return &RunNotFoundError{RunID: runID}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Package config provides configuration structures for the address matcher.
// It defines the cascade thresholds, concurrency limits, and external service
// settings.
package config

import (
	"fmt"
	"time"
)

// MatcherSettings contains all configuration options for a match run.
// Thresholds are acceptance floors: a candidate scoring exactly at a
// threshold is accepted.
type MatcherSettings struct {
	FuzzyThreshold          int           `json:"fuzzy_threshold"`           // Minimum token-sort score (0-100) for a fuzzy match
	PhoneticThreshold       int           `json:"phonetic_threshold"`        // Minimum token-set score (0-100) for a phonetic match
	PhoneticConfidenceScale float64       `json:"phonetic_confidence_scale"` // Factor applied to phonetic confidence, below 1.0
	EmbeddingThreshold      float64       `json:"embedding_threshold"`       // Minimum cosine similarity for an embedding match
	MaxWorkers              int           `json:"max_workers"`               // Number of concurrent transaction workers in a run
	ExternalConcurrency     int           `json:"external_concurrency"`      // Cap on in-flight external lookup calls
	ExternalTimeout         time.Duration `json:"external_timeout"`          // Per-call timeout for external lookups
}

// Default values applied by ApplyDefaults.
const (
	DefaultFuzzyThreshold          = 70
	DefaultPhoneticThreshold       = 60
	DefaultPhoneticConfidenceScale = 0.95
	DefaultEmbeddingThreshold      = 0.80
	DefaultMaxWorkers              = 8
	DefaultExternalConcurrency     = 2
	DefaultExternalTimeout         = 5 * time.Second
)

// ApplyDefaults applies default values to unset matcher settings
func (settings *MatcherSettings) ApplyDefaults() {
	if settings.FuzzyThreshold == 0 {
		settings.FuzzyThreshold = DefaultFuzzyThreshold
	}
	if settings.PhoneticThreshold == 0 {
		settings.PhoneticThreshold = DefaultPhoneticThreshold
	}
	if settings.PhoneticConfidenceScale == 0 {
		settings.PhoneticConfidenceScale = DefaultPhoneticConfidenceScale
	}
	if settings.EmbeddingThreshold == 0 {
		settings.EmbeddingThreshold = DefaultEmbeddingThreshold
	}
	if settings.MaxWorkers == 0 {
		settings.MaxWorkers = DefaultMaxWorkers
	}
	if settings.ExternalConcurrency == 0 {
		settings.ExternalConcurrency = DefaultExternalConcurrency
	}
	if settings.ExternalTimeout == 0 {
		settings.ExternalTimeout = DefaultExternalTimeout
	}
}

// Validate checks that the settings form a usable configuration and returns
// every problem found.
func (settings *MatcherSettings) Validate() []string {
	var problems []string

	if settings.FuzzyThreshold < 0 || settings.FuzzyThreshold > 100 {
		problems = append(problems, fmt.Sprintf("fuzzy_threshold must be between 0 and 100, got %d", settings.FuzzyThreshold))
	}
	if settings.PhoneticThreshold < 0 || settings.PhoneticThreshold > 100 {
		problems = append(problems, fmt.Sprintf("phonetic_threshold must be between 0 and 100, got %d", settings.PhoneticThreshold))
	}
	if settings.PhoneticConfidenceScale <= 0 || settings.PhoneticConfidenceScale >= 1 {
		problems = append(problems, fmt.Sprintf("phonetic_confidence_scale must be in (0, 1), got %g", settings.PhoneticConfidenceScale))
	}
	if settings.EmbeddingThreshold <= 0 || settings.EmbeddingThreshold > 1 {
		problems = append(problems, fmt.Sprintf("embedding_threshold must be in (0, 1], got %g", settings.EmbeddingThreshold))
	}
	if settings.MaxWorkers < 1 {
		problems = append(problems, fmt.Sprintf("max_workers must be at least 1, got %d", settings.MaxWorkers))
	}
	if settings.ExternalConcurrency < 1 {
		problems = append(problems, fmt.Sprintf("external_concurrency must be at least 1, got %d", settings.ExternalConcurrency))
	}
	if settings.ExternalTimeout < 0 {
		problems = append(problems, fmt.Sprintf("external_timeout must not be negative, got %s", settings.ExternalTimeout))
	}

	return problems
}

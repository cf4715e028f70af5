package persistence

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gcbaptista/go-address-matcher/model"
)

// WriteMatchedCSV writes the matched results of a run to a CSV file, one row
// per resolved transaction.
func WriteMatchedCSV(filePath string, results []model.MatchResult) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	file, err := os.Create(filePath) // #nosec G304 -- filePath is controlled by application, not user input
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", filePath, err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filePath, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	header := []string{"transaction_id", "canonical_id", "matched_address", "match_type", "confidence"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header to %s: %w", filePath, err)
	}

	for _, result := range results {
		if !result.Matched() {
			continue
		}
		row := []string{
			result.TransactionID,
			result.CanonicalID,
			result.MatchedAddress,
			string(result.MatchType),
			strconv.FormatFloat(result.Confidence, 'f', 4, 64),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row to %s: %w", filePath, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV to %s: %w", filePath, err)
	}
	return nil
}

// unmatchedEntry is one line of the unmatched report.
type unmatchedEntry struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"`
	Reason        string `json:"reason,omitempty"`
}

// WriteUnmatchedReport writes a JSON report of every transaction a run could
// not resolve, including externally-failed lookups with their failure reason.
func WriteUnmatchedReport(filePath string, results []model.MatchResult) error {
	entries := make([]unmatchedEntry, 0)
	for _, result := range results {
		if result.Matched() {
			continue
		}
		entries = append(entries, unmatchedEntry{
			TransactionID: result.TransactionID,
			Status:        string(result.Status),
			Reason:        result.Reason,
		})
	}

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal unmatched report: %w", err)
	}
	if err := os.WriteFile(filePath, payload, 0600); err != nil {
		return fmt.Errorf("failed to write unmatched report to %s: %w", filePath, err)
	}
	return nil
}

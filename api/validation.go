// Package api provides the HTTP surface of the address matcher.
package api

import (
	"fmt"
	"strings"

	"github.com/gcbaptista/go-address-matcher/model"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateTransaction checks the structural requirements for a single
// transaction. A missing street or house number is NOT rejected here;
// incomplete records flow through the cascade, which skips the stages it
// cannot run. Only an address with no usable content at all is refused.
func ValidateTransaction(tx *model.TransactionAddress) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if tx == nil {
		result.AddError("transaction", "Transaction address is required")
		return result
	}

	if strings.TrimSpace(tx.ID) == "" {
		result.AddError("id", "Transaction ID is required")
	}

	if strings.TrimSpace(tx.HouseNumber) == "" &&
		strings.TrimSpace(tx.StreetName) == "" &&
		strings.TrimSpace(tx.RawAddress) == "" {
		result.AddError("street_name", "Transaction must carry a house number, a street name, or a raw address")
	}

	return result
}

// ValidateTransactions validates a batch of transactions for a run.
// Duplicate IDs are rejected because a run produces exactly one result per
// transaction ID.
func ValidateTransactions(transactions []model.TransactionAddress) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(transactions) == 0 {
		result.AddError("transactions", "No transactions provided")
		return result
	}

	seen := make(map[string]struct{}, len(transactions))
	for i := range transactions {
		tx := &transactions[i]
		if txResult := ValidateTransaction(tx); txResult.HasErrors() {
			for _, e := range txResult.Errors {
				result.AddError(fmt.Sprintf("transactions[%d].%s", i, e.Field), e.Message)
			}
			continue
		}
		if _, dup := seen[tx.ID]; dup {
			result.AddError(fmt.Sprintf("transactions[%d].id", i), "Duplicate transaction ID '"+tx.ID+"'")
			continue
		}
		seen[tx.ID] = struct{}{}
	}

	return result
}

// ValidateCanonicalAddresses validates a registry payload before it replaces
// the current snapshot. Registry entries need at least an ID and a house
// number; an entry without a house number can never be blocked against.
func ValidateCanonicalAddresses(addresses []model.CanonicalAddress) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if len(addresses) == 0 {
		result.AddError("registry", "No canonical addresses provided")
		return result
	}

	for i := range addresses {
		addr := &addresses[i]
		if strings.TrimSpace(addr.ID) == "" {
			result.AddError(fmt.Sprintf("registry[%d].id", i), "Canonical address ID is required")
		}
		if strings.TrimSpace(addr.HouseNumber) == "" {
			result.AddError(fmt.Sprintf("registry[%d].house_number", i), "Canonical address house number is required")
		}
		if strings.TrimSpace(addr.StreetName) == "" {
			result.AddError(fmt.Sprintf("registry[%d].street_name", i), "Canonical address street name is required")
		}
	}

	return result
}

// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Decision engine errors
	ErrCodeNoCompatibleTemplate ErrorCode = "NO_COMPATIBLE_TEMPLATE"
	ErrCodeEmptyCatalog         ErrorCode = "EMPTY_CATALOG"

	// Worker-layer errors
	ErrCodeInputParsingFailed ErrorCode = "INPUT_PARSING_FAILED"
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeCatalogLoadFailed  ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeCacheUnavailable   ErrorCode = "CACHE_UNAVAILABLE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NearMiss is one rejected template kept for diagnostics on a
// NO_COMPATIBLE_TEMPLATE error.
type NearMiss struct {
	TemplateID string `json:"templateId"`
	Score      int    `json:"score"`
}

// ==========================
// 2. Error Constructors
// ==========================

// NewNoCompatibleTemplateError signals that no template in the catalog
// scored at or above threshold for the attempted industry. The near-miss
// list carries the top rejected scores, best first.
func NewNoCompatibleTemplateError(industry string, threshold int, nearMisses []NearMiss) *StandardError {
	sorted := make([]NearMiss, len(nearMisses))
	copy(sorted, nearMisses)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })

	return &StandardError{
		Code:      ErrCodeNoCompatibleTemplate,
		Message:   "No template scored at or above the compatibility threshold",
		Details:   fmt.Sprintf("industry: %s, threshold: %d", industry, threshold),
		Retryable: false,
		Metadata: map[string]interface{}{
			"industry":   industry,
			"threshold":  threshold,
			"nearMisses": sorted,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewEmptyCatalogError signals that the template catalog itself is empty.
func NewEmptyCatalogError() *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyCatalog,
		Message:   "Template catalog is empty",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInputParsingFailedError creates a non-retryable job variable parsing error.
func NewInputParsingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInputParsingFailed,
		Message:   "Failed to parse job variables",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError creates a non-retryable input validation error.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Input validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogLoadFailedError creates a retryable catalog store error.
func NewCatalogLoadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogLoadFailed,
		Message:   "Failed to load template catalog",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// GetRetryCount returns the recommended retry count per error code.
// Decision errors are business outcomes: never retried.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogLoadFailed, ErrCodeCacheUnavailable:
		return 3
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	errVars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		errVars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: errVars,
	}
}

// ==========================
// 4. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "TEMPLATE") || strings.Contains(codeStr, "CATALOG"):
		return "DECISION"
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "PARSING"):
		return "VALIDATION"
	case strings.Contains(codeStr, "CACHE"):
		return "CACHE"
	default:
		return "OTHER"
	}
}

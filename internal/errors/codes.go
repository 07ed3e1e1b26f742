// Package errors provides structured error handling for Cortado.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (file, disk)
//   - 3XX: Collaborator availability errors (retryable)
//   - 4XX: Validation errors
//   - 5XX: Internal errors
//   - 6XX: SQL safety rejections
//   - 7XX: Database execution errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file and disk I/O errors.
	CategoryIO Category = "IO"
	// CategoryUnavailable indicates a required collaborator is not ready.
	CategoryUnavailable Category = "UNAVAILABLE"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
	// CategorySafety indicates generated SQL that failed the safety gate.
	CategorySafety Category = "SAFETY"
	// CategoryDatabase indicates errors reported by the catalog store.
	CategoryDatabase Category = "DATABASE"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeFileNotFound = "ERR_201_FILE_NOT_FOUND"
	ErrCodeCorruptIndex = "ERR_202_CORRUPT_INDEX"

	// Availability errors (300-399) - retryable
	ErrCodeIndexNotReady    = "ERR_301_INDEX_NOT_READY"
	ErrCodeEmbedderNotReady = "ERR_302_EMBEDDER_NOT_READY"
	ErrCodeTimeout          = "ERR_303_COLLABORATOR_TIMEOUT"

	// Validation errors (400-499)
	ErrCodeInvalidInput = "ERR_401_INVALID_INPUT"
	ErrCodeQueryEmpty   = "ERR_402_QUERY_EMPTY"
	ErrCodeInvalidTopK  = "ERR_403_INVALID_TOP_K"

	// Internal errors (500-599)
	ErrCodeInternal         = "ERR_501_INTERNAL"
	ErrCodeEmbeddingFailed  = "ERR_502_EMBEDDING_FAILED"
	ErrCodeGenerationFailed = "ERR_503_GENERATION_FAILED"
	ErrCodeReindexFailed    = "ERR_504_REINDEX_FAILED"

	// SQL safety rejections (600-699)
	ErrCodeNotSelect = "ERR_601_NOT_SELECT"

	// Database execution errors (700-799)
	ErrCodeSQLExecution = "ERR_701_SQL_EXECUTION"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract the leading digit of the numeric portion
	// (e.g., '1' from "ERR_101_CONFIG_NOT_FOUND").
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryUnavailable
	case '4':
		return CategoryValidation
	case '6':
		return CategorySafety
	case '7':
		return CategoryDatabase
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	if code == ErrCodeCorruptIndex {
		return SeverityFatal
	}
	if isRetryableCode(code) {
		return SeverityWarning
	}
	return SeverityError
}

// isRetryableCode checks if an error code represents a retryable error.
// Availability errors are the only retryable class: the collaborator may
// come up later, so callers can usefully try again.
func isRetryableCode(code string) bool {
	switch code {
	case ErrCodeIndexNotReady, ErrCodeEmbedderNotReady, ErrCodeTimeout:
		return true
	}
	return false
}

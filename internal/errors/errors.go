package errors

import (
	"fmt"
)

// CortadoError is the structured error type for Cortado.
// It provides rich context for error handling, logging, and user presentation.
type CortadoError struct {
	// Code is the unique error code (e.g., "ERR_402_QUERY_EMPTY").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Validation, Safety, etc.).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *CortadoError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *CortadoError) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with CortadoError.
func (e *CortadoError) Is(target error) bool {
	if t, ok := target.(*CortadoError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *CortadoError) WithDetail(key, value string) *CortadoError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
// Returns the error for method chaining.
func (e *CortadoError) WithSuggestion(suggestion string) *CortadoError {
	e.Suggestion = suggestion
	return e
}

// New creates a new CortadoError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *CortadoError {
	return &CortadoError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a CortadoError from an existing error.
// The error's message becomes the CortadoError message.
func Wrap(code string, err error) *CortadoError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *CortadoError {
	return New(ErrCodeInvalidInput, message, cause)
}

// ServiceUnavailable creates an availability error for a collaborator
// that has not finished initializing. Always retryable.
func ServiceUnavailable(message string, cause error) *CortadoError {
	return New(ErrCodeIndexNotReady, message, cause)
}

// SafetyRejection creates an error for generated SQL that failed the
// SELECT-prefix gate. The reason is surfaced to the caller; the statement
// is never executed.
func SafetyRejection(message string) *CortadoError {
	return New(ErrCodeNotSelect, message, nil)
}

// ExecutionError creates an error for statements the catalog store rejected.
// The store's message is surfaced to the caller.
func ExecutionError(message string, cause error) *CortadoError {
	return New(ErrCodeSQLExecution, message, cause)
}

// InternalError creates an internal error. The message shown to callers
// should stay opaque; the cause carries the detail for logs.
func InternalError(message string, cause error) *CortadoError {
	return New(ErrCodeInternal, message, cause)
}

// IsRetryable checks if an error is retryable.
// Returns true if the error is a CortadoError with Retryable flag set.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if ce, ok := err.(*CortadoError); ok {
		return ce.Retryable
	}
	return false
}

// GetCode extracts the error code from a CortadoError.
// Returns empty string if not a CortadoError.
func GetCode(err error) string {
	if ce, ok := err.(*CortadoError); ok {
		return ce.Code
	}
	return ""
}

// GetCategory extracts the category from a CortadoError.
// Returns empty string if not a CortadoError.
func GetCategory(err error) Category {
	if ce, ok := err.(*CortadoError); ok {
		return ce.Category
	}
	return ""
}

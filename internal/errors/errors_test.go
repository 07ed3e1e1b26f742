package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DerivesCategoryFromCode(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		category Category
	}{
		{"config code", ErrCodeConfigInvalid, CategoryConfig},
		{"io code", ErrCodeFileNotFound, CategoryIO},
		{"availability code", ErrCodeIndexNotReady, CategoryUnavailable},
		{"validation code", ErrCodeQueryEmpty, CategoryValidation},
		{"internal code", ErrCodeInternal, CategoryInternal},
		{"safety code", ErrCodeNotSelect, CategorySafety},
		{"database code", ErrCodeSQLExecution, CategoryDatabase},
		{"malformed code", "ERR", CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, "message", nil)
			assert.Equal(t, tt.category, err.Category)
		})
	}
}

func TestNew_RetryableOnlyForAvailability(t *testing.T) {
	assert.True(t, New(ErrCodeIndexNotReady, "index loading", nil).Retryable)
	assert.True(t, New(ErrCodeEmbedderNotReady, "embedder loading", nil).Retryable)
	assert.True(t, New(ErrCodeTimeout, "llm timed out", nil).Retryable)

	assert.False(t, New(ErrCodeQueryEmpty, "empty query", nil).Retryable)
	assert.False(t, New(ErrCodeNotSelect, "not a select", nil).Retryable)
	assert.False(t, New(ErrCodeSQLExecution, "no such column", nil).Retryable)
	assert.False(t, New(ErrCodeInternal, "boom", nil).Retryable)
}

func TestError_FormatIncludesCode(t *testing.T) {
	err := New(ErrCodeQueryEmpty, "query must not be empty", nil)
	assert.Equal(t, "[ERR_402_QUERY_EMPTY] query must not be empty", err.Error())
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("no such column: region")
	err := Wrap(ErrCodeSQLExecution, cause)

	require.NotNil(t, err)
	assert.Equal(t, cause.Error(), err.Message)
	assert.True(t, stderrors.Is(err, cause))
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestIs_MatchesByCode(t *testing.T) {
	a := New(ErrCodeNotSelect, "rejected: DROP", nil)
	b := New(ErrCodeNotSelect, "rejected: UPDATE", nil)
	c := New(ErrCodeInternal, "boom", nil)

	assert.True(t, stderrors.Is(a, b))
	assert.False(t, stderrors.Is(a, c))
}

func TestWithDetail_Chains(t *testing.T) {
	err := New(ErrCodeNotSelect, "not a SELECT statement", nil).
		WithDetail("statement", "DROP TABLE outlets").
		WithSuggestion("Only read-only queries are supported")

	assert.Equal(t, "DROP TABLE outlets", err.Details["statement"])
	assert.Equal(t, "Only read-only queries are supported", err.Suggestion)
}

func TestIsRetryable_NonCortadoError(t *testing.T) {
	assert.False(t, IsRetryable(fmt.Errorf("plain error")))
	assert.False(t, IsRetryable(nil))
	assert.True(t, IsRetryable(ServiceUnavailable("search index is not initialized", nil)))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeQueryEmpty, GetCode(New(ErrCodeQueryEmpty, "m", nil)))
	assert.Equal(t, "", GetCode(fmt.Errorf("plain")))
}

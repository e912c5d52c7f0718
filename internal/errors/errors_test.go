package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{
			name:     "schema error type",
			errType:  ErrTypeSchema,
			expected: "SCHEMA",
		},
		{
			name:     "config error type",
			errType:  ErrTypeConfig,
			expected: "CONFIG",
		},
		{
			name:     "empty input error type",
			errType:  ErrTypeEmptyInput,
			expected: "EMPTY_INPUT",
		},
		{
			name:     "parsing error type",
			errType:  ErrTypeParsing,
			expected: "PARSING",
		},
		{
			name:     "network error type",
			errType:  ErrTypeNetwork,
			expected: "NETWORK",
		},
		{
			name:     "not found error type",
			errType:  ErrTypeNotFound,
			expected: "NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := NewAppError(ErrTypeSchema, "missing column", nil)
		assert.Equal(t, "[SCHEMA] missing column", err.Error())
	})

	t.Run("with cause", func(t *testing.T) {
		cause := fmt.Errorf("underlying failure")
		err := NewAppError(ErrTypeParsing, "bad row", cause)
		assert.Equal(t, "[PARSING] bad row: underlying failure", err.Error())
	})
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewConfigError("invalid bounds", cause)

	require.ErrorIs(t, err, cause)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrTypeConfig, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewSchemaError("fare_amount")
	err.WithContext("table", "trips")

	assert.Equal(t, "fare_amount", err.Context["field"])
	assert.Equal(t, "trips", err.Context["table"])
}

func TestErrorPredicates(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
		want  bool
	}{
		{"schema error matches", NewSchemaError("duration_mins"), IsSchemaError, true},
		{"config error matches", NewConfigError("lower >= upper", nil), IsConfigError, true},
		{"empty input matches", NewEmptyInputError("quantile"), IsEmptyInputError, true},
		{"wrapped schema error matches", fmt.Errorf("filter: %w", NewSchemaError("x")), IsSchemaError, true},
		{"plain error does not match", errors.New("boom"), IsSchemaError, false},
		{"cross type does not match", NewConfigError("bad", nil), IsEmptyInputError, false},
		{"nil does not match", nil, IsConfigError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.check(tt.err))
		})
	}
}

func TestNewSchemaError_Message(t *testing.T) {
	err := NewSchemaError("trip_distance")
	assert.Contains(t, err.Error(), `"trip_distance"`)
	assert.Contains(t, err.Error(), "not in table schema")
}

func TestNewEmptyInputError_Message(t *testing.T) {
	err := NewEmptyInputError("quantile computation")
	assert.Contains(t, err.Error(), "quantile computation over empty input")
	assert.Equal(t, "quantile computation", err.Context["operation"])
}

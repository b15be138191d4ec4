package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_IsSentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     bool
	}{
		{"data unavailable", NewDataUnavailableError("chicago", "missing", nil), ErrDataUnavailable, true},
		{"no data for filter", NewNoDataForFilterError("chicago", "march", "sunday"), ErrNoDataForFilter, true},
		{"schema mismatch", NewSchemaMismatchError("gender"), ErrSchemaMismatch, true},
		{"validation", NewAppValidationError("bad input"), ErrValidation, true},
		{"wrapped", fmt.Errorf("query: %w", NewSchemaMismatchError("duration")), ErrSchemaMismatch, true},
		{"different type", NewSchemaMismatchError("gender"), ErrDataUnavailable, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.sentinel))
		})
	}
}

func TestAppError_UnwrapsCause(t *testing.T) {
	cause := errors.New("open chicago.csv: no such file")
	err := NewDataUnavailableError("chicago", "dataset not found", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "DATA_UNAVAILABLE")
	assert.Contains(t, err.Error(), "no such file")
	assert.Equal(t, "chicago", err.Context["city"])
}

func TestNewNoDataForFilterError_Context(t *testing.T) {
	err := NewNoDataForFilterError("washington", "june", "sunday")

	assert.Equal(t, ErrTypeNoDataForFilter, err.Type)
	assert.Equal(t, "washington", err.Context["city"])
	assert.Equal(t, "june", err.Context["month"])
	assert.Equal(t, "sunday", err.Context["day"])
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, ErrTypeSchemaMismatch, TypeOf(fmt.Errorf("x: %w", NewSchemaMismatchError("gender"))))
	assert.Equal(t, ErrorType(""), TypeOf(errors.New("plain")))
	assert.Equal(t, ErrorType(""), TypeOf(nil))
}

func TestProblemDetails_MarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusNotFound, TypeNoDataForFilter, "No Data For Filter", "nothing", "/api/v1/stats").
		WithExtension("city", "chicago")

	b, err := json.Marshal(pd)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, TypeNoDataForFilter, got["type"])
	assert.Equal(t, float64(http.StatusNotFound), got["status"])
	assert.Equal(t, "nothing", got["detail"])
	assert.Equal(t, "chicago", got["city"])
}

func TestProblemDetails_ExtensionsCannotOverrideStandardFields(t *testing.T) {
	pd := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Validation Failed", "", "").
		WithExtension("status", 999)

	b, err := json.Marshal(pd)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, float64(http.StatusBadRequest), got["status"])
	assert.NotContains(t, got, "detail")
}

func TestAPIError_CopiesLeaveSentinelsUntouched(t *testing.T) {
	err := ErrWebSocketUpgrade.WithStatus(http.StatusBadRequest).WithDetails("bad handshake")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "bad handshake", err.Details)
	assert.Equal(t, http.StatusInternalServerError, ErrWebSocketUpgrade.StatusCode)
	assert.Nil(t, ErrWebSocketUpgrade.Details)

	notFound := NotFoundError("statistic group \"weather\"", []string{"time"})
	assert.Equal(t, "statistic group \"weather\" not found", notFound.Message)
	assert.Equal(t, "Resource not found", ErrNotFound.Message)

	problem := ErrRateLimitExceeded.Problem("/api/health")
	assert.Equal(t, TypeRateLimit, problem.Type)
	assert.Equal(t, "/api/health", problem.Instance)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", problem.Extensions["error_code"])
}

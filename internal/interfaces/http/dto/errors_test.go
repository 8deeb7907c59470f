package dto

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	cases := map[string]int{
		ErrCodeUnknown:             http.StatusInternalServerError,
		ErrCodeInternal:            http.StatusInternalServerError,
		ErrCodeValidation:          http.StatusBadRequest,
		ErrCodeValidationRequired:  http.StatusBadRequest,
		ErrCodeUnauthorized:        http.StatusUnauthorized,
		ErrCodeForbidden:           http.StatusForbidden,
		ErrCodeTokenExpired:        http.StatusUnauthorized,
		ErrCodeNotFound:            http.StatusNotFound,
		ErrCodeAlreadyExists:       http.StatusConflict,
		ErrCodeConflict:            http.StatusConflict,
		ErrCodeConcurrencyConflict: http.StatusConflict,
		ErrCodeInvalidState:        http.StatusUnprocessableEntity,
		ErrCodeBusinessRule:        http.StatusUnprocessableEntity,
		ErrCodeFailedDependency:    http.StatusFailedDependency,
		ErrCodeBadRequest:          http.StatusBadRequest,
		ErrCodeInvalidInput:        http.StatusBadRequest,
		ErrCodeRateLimited:         http.StatusTooManyRequests,

		// Unmapped INVALID_ domain codes count as bad requests.
		"INVALID_FILTER":   http.StatusBadRequest,
		"INVALID_SCHEDULE": http.StatusBadRequest,

		// Anything else unknown is a server error.
		"UNKNOWN_CODE": http.StatusInternalServerError,
	}

	for code, want := range cases {
		t.Run(code, func(t *testing.T) {
			assert.Equal(t, want, GetHTTPStatus(code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	cases := map[string]string{
		"NOT_FOUND":            ErrCodeNotFound,
		"ALREADY_EXISTS":       ErrCodeAlreadyExists,
		"ALREADY_PAID":         ErrCodeConflict,
		"INVALID_INPUT":        ErrCodeInvalidInput,
		"INVALID_STATE":        ErrCodeInvalidState,
		"UNAUTHORIZED":         ErrCodeUnauthorized,
		"FORBIDDEN":            ErrCodeForbidden,
		"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,
		"VALIDATION_ERROR":     ErrCodeValidation,
		"BAD_REQUEST":          ErrCodeBadRequest,
		"INTERNAL_ERROR":       ErrCodeInternal,
		"FAILED_DEPENDENCY":    ErrCodeFailedDependency,
		"MAIL_FAILED":          ErrCodeFailedDependency,

		// Already-normalized and unknown codes pass through.
		ErrCodeNotFound: ErrCodeNotFound,
		"CUSTOM_ERROR":  "CUSTOM_ERROR",
	}

	for input, want := range cases {
		t.Run(input, func(t *testing.T) {
			assert.Equal(t, want, NormalizeErrorCode(input))
		})
	}
}

func TestEveryErrorCodeHasAStatus(t *testing.T) {
	codes := []string{
		ErrCodeUnknown, ErrCodeInternal,
		ErrCodeValidation, ErrCodeValidationRequired, ErrCodeValidationFormat,
		ErrCodeValidationRange, ErrCodeValidationLength,
		ErrCodeUnauthorized, ErrCodeForbidden, ErrCodeTokenExpired, ErrCodeTokenInvalid,
		ErrCodeNotFound, ErrCodeAlreadyExists, ErrCodeConflict, ErrCodeConcurrencyConflict,
		ErrCodeInvalidState, ErrCodeBusinessRule,
		ErrCodeFailedDependency,
		ErrCodeBadRequest, ErrCodeInvalidInput, ErrCodeInvalidJSON,
		ErrCodeRateLimited, ErrCodeTooManyRequests,
	}

	for _, code := range codes {
		t.Run(code, func(t *testing.T) {
			status, ok := ErrorCodeHTTPStatus[code]
			assert.True(t, ok, "missing from ErrorCodeHTTPStatus")
			assert.GreaterOrEqual(t, status, 400)
			assert.Contains(t, code, "ERR_")
		})
	}
}

func TestNewErrorResponse_NormalizesLegacyCode(t *testing.T) {
	before := time.Now()
	resp := NewErrorResponse("NOT_FOUND", "Invoice not found")

	assert.False(t, resp.Success)
	assert.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Invoice not found", resp.Error.Message)
	assert.False(t, resp.Error.Timestamp.Before(before))
	assert.False(t, resp.Error.Timestamp.After(time.Now()))
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeConcurrencyConflict,
		"Invoice was modified by another user", "req-123-456")

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeConcurrencyConflict, resp.Error.Code)
	assert.Equal(t, "req-123-456", resp.Error.RequestID)
	assert.NotZero(t, resp.Error.Timestamp)
}

func TestNewValidationErrorResponse(t *testing.T) {
	details := []ValidationDetail{
		{Field: "customer_email", Message: "Must be a valid email address"},
		{Field: "due_date", Message: "A value is required"},
	}

	resp := NewValidationErrorResponse("Request body failed validation", "req-789", details)

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "Request body failed validation", resp.Error.Message)
	assert.Equal(t, "req-789", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "customer_email", resp.Error.Details[0].Field)
	assert.Equal(t, "Must be a valid email address", resp.Error.Details[0].Message)
}

func TestNewErrorResponseWithHelp(t *testing.T) {
	resp := NewErrorResponseWithHelp(ErrCodeUnauthorized, "Not authenticated",
		"req-001", "https://docs.square15.co.za/errors/auth")

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeUnauthorized, resp.Error.Code)
	assert.Equal(t, "https://docs.square15.co.za/errors/auth", resp.Error.Help)
}

func TestErrorResponseJSONRoundTrip(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeNotFound, "Registration not found", "req-test-123")

	data, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded Response
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.False(t, decoded.Success)
	require.NotNil(t, decoded.Error)
	assert.Equal(t, ErrCodeNotFound, decoded.Error.Code)
	assert.Equal(t, "Registration not found", decoded.Error.Message)
	assert.Equal(t, "req-test-123", decoded.Error.RequestID)
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"invoice_number": "INV-202608-00001"})

	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
	assert.Nil(t, resp.Meta)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	cases := []struct {
		name      string
		total     int64
		pageSize  int
		wantPages int
		wantSize  int
	}{
		{"exact pages", 100, 10, 10, 10},
		{"partial last page", 101, 10, 11, 10},
		{"empty list", 0, 10, 0, 10},
		{"single partial page", 9, 10, 1, 10},
		{"boundary", 10, 10, 1, 10},
		{"just over boundary", 11, 10, 2, 10},
		{"zero page size defaults", 100, 0, 5, 20},
		{"negative page size defaults", 100, -1, 5, 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := NewSuccessResponseWithMeta([]string{"a", "b"}, tc.total, 1, tc.pageSize)

			assert.True(t, resp.Success)
			require.NotNil(t, resp.Meta)
			assert.Equal(t, tc.total, resp.Meta.Total)
			assert.Equal(t, 1, resp.Meta.Page)
			assert.Equal(t, tc.wantSize, resp.Meta.PageSize)
			assert.Equal(t, tc.wantPages, resp.Meta.TotalPages)
		})
	}
}

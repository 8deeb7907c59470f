package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/square15/backend/internal/domain/shared"
	"github.com/square15/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestGetRequestID(t *testing.T) {
	t.Run("context value wins over header", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Request.Header.Set(RequestIDKey, "from-header")
		c.Set(RequestIDKey, "from-context")

		assert.Equal(t, "from-context", getRequestID(c))
	})

	t.Run("falls back to header", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Request.Header.Set(RequestIDKey, "from-header")

		assert.Equal(t, "from-header", getRequestID(c))
	})

	t.Run("empty when absent", func(t *testing.T) {
		c, _ := newTestContext(t)

		assert.Equal(t, "", getRequestID(c))
	})
}

func TestGetUserID(t *testing.T) {
	userID := uuid.New()

	t.Run("from jwt claims", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Set("jwt_user_id", userID.String())
		c.Request.Header.Set("X-User-ID", uuid.New().String())

		got, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("falls back to header", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Request.Header.Set("X-User-ID", userID.String())

		got, err := getUserID(c)
		require.NoError(t, err)
		assert.Equal(t, userID, got)
	})

	t.Run("missing", func(t *testing.T) {
		c, _ := newTestContext(t)

		_, err := getUserID(c)
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Request.Header.Set("X-User-ID", "not-a-uuid")

		_, err := getUserID(c)
		assert.Error(t, err)
	})
}

func TestGetTenantID(t *testing.T) {
	tenantID := uuid.New()

	t.Run("from jwt claims", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Set("jwt_tenant_id", tenantID.String())

		got, err := getTenantID(c)
		require.NoError(t, err)
		assert.Equal(t, tenantID, got)
	})

	t.Run("falls back to header", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Request.Header.Set("X-Tenant-ID", tenantID.String())

		got, err := getTenantID(c)
		require.NoError(t, err)
		assert.Equal(t, tenantID, got)
	})

	t.Run("development default when absent", func(t *testing.T) {
		c, _ := newTestContext(t)

		got, err := getTenantID(c)
		require.NoError(t, err)
		assert.Equal(t, "00000000-0000-0000-0000-000000000001", got.String())
	})

	t.Run("malformed", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Request.Header.Set("X-Tenant-ID", "tenant-1")

		_, err := getTenantID(c)
		assert.Error(t, err)
	})
}

func TestSuccessResponses(t *testing.T) {
	h := &BaseHandler{}

	t.Run("Success", func(t *testing.T) {
		c, w := newTestContext(t)
		h.Success(c, map[string]string{"invoice_number": "INV-202608-00001"})

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		assert.True(t, resp.Success)
		assert.NotNil(t, resp.Data)
		assert.Nil(t, resp.Error)
	})

	t.Run("SuccessWithMeta", func(t *testing.T) {
		c, w := newTestContext(t)
		h.SuccessWithMeta(c, []string{"a", "b"}, 42, 2, 20)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(42), resp.Meta.Total)
		assert.Equal(t, 2, resp.Meta.Page)
		assert.Equal(t, 20, resp.Meta.PageSize)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("Created", func(t *testing.T) {
		c, w := newTestContext(t)
		h.Created(c, map[string]string{"id": uuid.New().String()})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, decodeResponse(t, w).Success)
	})

	t.Run("NoContent", func(t *testing.T) {
		c, w := newTestContext(t)
		h.NoContent(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})
}

func TestErrorHelpers(t *testing.T) {
	h := &BaseHandler{}

	cases := []struct {
		name       string
		respond    func(c *gin.Context)
		wantStatus int
		wantCode   string
	}{
		{
			"BadRequest",
			func(c *gin.Context) { h.BadRequest(c, "Invalid invoice filter") },
			http.StatusBadRequest, dto.ErrCodeBadRequest,
		},
		{
			"NotFound",
			func(c *gin.Context) { h.NotFound(c, "Registration not found") },
			http.StatusNotFound, dto.ErrCodeNotFound,
		},
		{
			"Unauthorized",
			func(c *gin.Context) { h.Unauthorized(c, "Not authenticated") },
			http.StatusUnauthorized, dto.ErrCodeUnauthorized,
		},
		{
			"Forbidden",
			func(c *gin.Context) { h.Forbidden(c, "Tenant mismatch") },
			http.StatusForbidden, dto.ErrCodeForbidden,
		},
		{
			"Conflict",
			func(c *gin.Context) { h.Conflict(c, "Invoice number already taken") },
			http.StatusConflict, dto.ErrCodeConflict,
		},
		{
			"UnprocessableEntity",
			func(c *gin.Context) {
				h.UnprocessableEntity(c, dto.ErrCodeBusinessRule, "Invoice is not in a sendable state")
			},
			http.StatusUnprocessableEntity, dto.ErrCodeBusinessRule,
		},
		{
			"InternalError",
			func(c *gin.Context) { h.InternalError(c, "Database unavailable") },
			http.StatusInternalServerError, dto.ErrCodeInternal,
		},
		{
			"TooManyRequests",
			func(c *gin.Context) { h.TooManyRequests(c, "Rate limit exceeded") },
			http.StatusTooManyRequests, dto.ErrCodeRateLimited,
		},
		{
			"ErrorWithCode derives status",
			func(c *gin.Context) {
				h.ErrorWithCode(c, dto.ErrCodeFailedDependency, "Mail relay rejected the message")
			},
			http.StatusFailedDependency, dto.ErrCodeFailedDependency,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := newTestContext(t)
			tc.respond(c)

			assert.Equal(t, tc.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestErrorCarriesRequestID(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)
	c.Set(RequestIDKey, "req-9f2c")

	h.NotFound(c, "Quotation not found")

	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-9f2c", resp.Error.RequestID)
}

func TestValidationError(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(t)

	h.ValidationError(c, []dto.ValidationDetail{
		{Field: "customer_email", Message: "Must be a valid email address"},
		{Field: "due_date", Message: "A value is required"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	require.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "customer_email", resp.Error.Details[0].Field)
	assert.Equal(t, "due_date", resp.Error.Details[1].Field)
}

func TestHandleDomainError(t *testing.T) {
	h := &BaseHandler{}

	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"already exists", shared.ErrAlreadyExists, http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"invalid input", shared.ErrInvalidInput, http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"concurrency conflict", shared.ErrConcurrencyConflict, http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		{"unauthorized", shared.ErrUnauthorized, http.StatusUnauthorized, dto.ErrCodeUnauthorized},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, dto.ErrCodeForbidden},
		{"invalid state", shared.ErrInvalidState, http.StatusUnprocessableEntity, dto.ErrCodeInvalidState},
		{"failed dependency", shared.ErrFailedDependency, http.StatusFailedDependency, dto.ErrCodeFailedDependency},
		{
			"unmapped INVALID_ code counts as bad request",
			shared.NewDomainError("INVALID_FILTER", "Unknown sort field"),
			http.StatusBadRequest, "INVALID_FILTER",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := newTestContext(t)
			h.HandleDomainError(c, tc.err)

			assert.Equal(t, tc.wantStatus, w.Code)
			resp := decodeResponse(t, w)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}

	t.Run("non-domain error is a 500", func(t *testing.T) {
		c, w := newTestContext(t)
		h.HandleDomainError(c, fmt.Errorf("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
		assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
	})
}

func TestHandleError(t *testing.T) {
	h := &BaseHandler{}

	t.Run("nil writes nothing", func(t *testing.T) {
		c, w := newTestContext(t)
		h.HandleError(c, nil)

		assert.Empty(t, w.Body.String())
	})

	t.Run("unwraps wrapped domain errors", func(t *testing.T) {
		c, w := newTestContext(t)
		h.HandleError(c, fmt.Errorf("send invoice INV-202608-00001: %w", shared.ErrInvalidState))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)
	})

	t.Run("plain errors become a generic 500", func(t *testing.T) {
		c, w := newTestContext(t)
		h.HandleError(c, fmt.Errorf("smtp dial timeout"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		resp := decodeResponse(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
		assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
	})
}

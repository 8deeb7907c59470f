package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/square15/backend/internal/interfaces/http/dto"
)

type createCustomerRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required,min=2"`
}

func validationRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	r := gin.New()
	r.POST("/api/v1/customers", func(c *gin.Context) {
		var req createCustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req))
	})
	return r
}

func TestHandleValidationError_ReportsJSONFieldNames(t *testing.T) {
	r := validationRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers",
		strings.NewReader(`{"email": "not-an-email", "name": "x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDKey, "req-val-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "Request body failed validation", resp.Error.Message)
	assert.Equal(t, "req-val-1", resp.Error.RequestID)

	require.Len(t, resp.Error.Details, 2)
	fields := []string{resp.Error.Details[0].Field, resp.Error.Details[1].Field}
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "name")
}

func TestHandleValidationError_ValidInputPasses(t *testing.T) {
	r := validationRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/customers",
		strings.NewReader(`{"email": "accounts@umhlangalets.co.za", "name": "Umhlanga Lets"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-val-2")

	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}

func TestValidationMessages(t *testing.T) {
	type billingInput struct {
		Email     string `validate:"email"`
		Reference string `validate:"required"`
		Notes     string `validate:"max=10"`
		Code      string `validate:"len=5"`
		TenantID  string `validate:"uuid"`
		Status    string `validate:"oneof=DRAFT SENT PAID"`
		Quantity  int    `validate:"gte=1"`
		Discount  int    `validate:"lte=100"`
		Website   string `validate:"url"`
	}

	v := validator.New()
	err := v.Struct(billingInput{
		Email:    "invalid",
		Notes:    "far too long for the field",
		Code:     "ab",
		TenantID: "tenant-1",
		Status:   "VOID",
		Quantity: 0,
		Discount: 250,
		Website:  "not a url",
	})
	require.Error(t, err)

	want := map[string]string{
		"Email":     "Must be a valid email address",
		"Reference": "A value is required",
		"Notes":     "Must be at most 10 characters",
		"Code":      "Must be exactly 5 characters",
		"TenantID":  "Must be a valid UUID",
		"Status":    "Must be one of: DRAFT SENT PAID",
		"Quantity":  "Must be greater than or equal to 1",
		"Discount":  "Must be less than or equal to 100",
		"Website":   "Invalid URL format",
	}

	var fieldErrs validator.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	for _, fe := range fieldErrs {
		assert.Equal(t, want[fe.StructField()], validationMessage(fe), fe.StructField())
	}
}

func TestValidationMessage_UnknownTagFallsBack(t *testing.T) {
	type input struct {
		IP string `validate:"ip"`
	}

	err := validator.New().Struct(input{IP: "not-an-ip"})
	require.Error(t, err)

	var fieldErrs validator.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, "Invalid value", validationMessage(fieldErrs[0]))
}

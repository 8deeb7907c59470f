package middleware

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/square15/backend/internal/interfaces/http/dto"
)

// RequestIDKey is the context key for the request ID.
const RequestIDKey = "X-Request-ID"

// SetupValidator makes binding errors report the wire-level field name
// (json tag, form tag as fallback) instead of the Go struct field.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})
}

// FormatValidationErrors turns a binding error into the standard
// validation envelope with per-field details.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			details = append(details, dto.ValidationDetail{
				Field:   fe.Field(),
				Message: validationMessage(fe),
			})
		}
	}

	return dto.NewValidationErrorResponse("Request body failed validation", requestID, details)
}

// HandleValidationError writes a 400 with per-field validation details.
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, getRequestID(c)))
}

// Messages for validation tags that take no parameter.
var plainTagMessages = map[string]string{
	"required": "A value is required",
	"email":    "Must be a valid email address",
	"uuid":     "Must be a valid UUID",
	"url":      "Must be a valid URL",
	"numeric":  "Must be numeric",
	"alphanum": "Must be alphanumeric",
	"alpha":    "Must contain only letters",
}

func validationMessage(fe validator.FieldError) string {
	if msg, ok := plainTagMessages[fe.Tag()]; ok {
		return msg
	}

	switch fe.Tag() {
	case "min":
		return boundMessage("Must be at least ", fe)
	case "max":
		return boundMessage("Must be at most ", fe)
	case "len":
		return "Must be exactly " + fe.Param() + " characters"
	case "oneof":
		return "Must be one of: " + fe.Param()
	case "gte":
		return "Must be greater than or equal to " + fe.Param()
	case "lte":
		return "Must be less than or equal to " + fe.Param()
	case "gt":
		return "Must be greater than " + fe.Param()
	case "lt":
		return "Must be less than " + fe.Param()
	}
	return "Invalid value"
}

// boundMessage phrases min/max limits as a character count for string
// fields and as a plain bound for numeric ones.
func boundMessage(prefix string, fe validator.FieldError) string {
	if fe.Type().Kind() == reflect.String {
		return prefix + fe.Param() + " characters"
	}
	return prefix + fe.Param()
}

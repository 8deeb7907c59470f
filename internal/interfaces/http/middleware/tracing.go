package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Caps on header-sourced span attributes. Untrusted headers feed trace
// storage, so both length and format are bounded.
const (
	MaxRequestIDLength = 128
	MaxTenantIDLength  = 64
)

var tenantIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// TracingConfig configures the request tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

func DefaultTracingConfig() TracingConfig {
	return TracingConfig{ServiceName: "square15-backend", Enabled: true}
}

// Tracing traces requests under the default service name.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig wraps otelgin and tags each request span with the
// request ID, tenant and user. Span names follow otelgin's
// "METHOD route" convention.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}

	otelHandler := otelgin.Middleware(cfg.ServiceName)

	return func(c *gin.Context) {
		otelHandler(c)

		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			tagSpanIdentity(c, span)
		}
	}
}

// tagSpanIdentity attaches whoever the request is acting as. Values
// missing at this point in the chain are simply skipped.
func tagSpanIdentity(c *gin.Context, span trace.Span) {
	if requestID := getRequestID(c); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if tenantID := getTenantID(c); tenantID != "" {
		span.SetAttributes(attribute.String("tenant_id", tenantID))
	}
	if userID := getUserID(c); userID != "" {
		span.SetAttributes(attribute.String("user_id", userID))
	}
}

// getRequestID prefers the ID minted by the RequestID middleware and
// falls back to the header, truncated to a safe length.
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}

	headerID := c.GetHeader("X-Request-ID")
	if len(headerID) > MaxRequestIDLength {
		return headerID[:MaxRequestIDLength]
	}
	return headerID
}

// getTenantID prefers the tenant from the JWT claims. The X-Tenant-ID
// header is only trusted when it is a well-formed UUID.
func getTenantID(c *gin.Context) string {
	if id := c.GetString(JWTTenantIDKey); id != "" {
		return id
	}

	headerTenantID := c.GetHeader("X-Tenant-ID")
	if headerTenantID != "" && len(headerTenantID) <= MaxTenantIDLength && tenantIDPattern.MatchString(headerTenantID) {
		return headerTenantID
	}
	return ""
}

// getUserID reads the authenticated user from the JWT claims. There is
// no header fallback; an unauthenticated request has no user.
func getUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// SpanErrorMarker flags the request span as failed for 4xx and 5xx
// responses. Must run after the tracing middleware.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}

		span.SetStatus(codes.Error, errorStatusLabel(status))
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}

func errorStatusLabel(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "Internal Server Error"
	case status == http.StatusUnauthorized:
		return "Unauthorized"
	case status == http.StatusForbidden:
		return "Forbidden"
	case status == http.StatusNotFound:
		return "Not Found"
	default:
		return "Client Error"
	}
}

// TracingAttributeInjector re-tags the span once authentication has
// run, so tenant and user reflect the verified JWT claims. Must run
// after both the tracing and JWT middleware.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			tagSpanIdentity(c, span)
		}
		c.Next()
	}
}

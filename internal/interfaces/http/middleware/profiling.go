package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/square15/backend/internal/infrastructure/telemetry"
)

// ProfilingConfig controls which requests get pprof labels attached.
type ProfilingConfig struct {
	Enabled bool
	// SkipPaths are exact paths left unlabelled, health probes mostly.
	SkipPaths []string
	// SkipPathPrefixes are path prefixes left unlabelled.
	SkipPathPrefixes []string
}

func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled: true,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/metrics",
		},
		SkipPathPrefixes: []string{
			"/swagger",
			"/api-docs",
		},
	}
}

// Profiling labels requests with the default configuration.
func Profiling() gin.HandlerFunc {
	return ProfilingWithConfig(DefaultProfilingConfig())
}

// ProfilingWithConfig attaches pprof labels to the request goroutine so
// continuous profiles can be sliced by controller, route, method and
// tenant. Place it after the JWT and tenant middleware, otherwise the
// tenant label stays empty.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return passThrough
	}

	return func(c *gin.Context) {
		if profilingSkipped(c.Request.URL.Path, cfg) {
			c.Next()
			return
		}

		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingSkipped(path string, cfg ProfilingConfig) bool {
	for _, skip := range cfg.SkipPaths {
		if path == skip {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// profilingLabels builds the label set for one request. Every value is
// low cardinality: the route pattern, not the raw path.
func profilingLabels(c *gin.Context) map[string]string {
	labels := make(map[string]string, 4)

	if method := c.Request.Method; method != "" {
		labels[telemetry.ProfilingLabelMethod] = method
	}

	route := c.FullPath()
	if route != "" {
		labels[telemetry.ProfilingLabelRoute] = route
	}
	if resource := resourceFromRoute(route); resource != "" {
		labels[telemetry.ProfilingLabelController] = resource
	}

	if tenantID := profilingTenantID(c); tenantID != "" {
		labels[telemetry.ProfilingLabelTenantID] = tenantID
	}

	return labels
}

// resourceFromRoute names the resource a route serves, e.g.
// "/api/v1/invoices/:id" is "invoices".
func resourceFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isAPIVersion(part) {
			continue
		}
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "{") {
			continue
		}
		return part
	}
	return ""
}

// isAPIVersion reports whether a path segment looks like "v1", "v2".
func isAPIVersion(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}

// profilingTenantID prefers the JWT tenant, then the tenant resolved by
// the tenant middleware.
func profilingTenantID(c *gin.Context) string {
	if id := c.GetString(JWTTenantIDKey); id != "" {
		return id
	}
	return c.GetString(TenantIDKey)
}

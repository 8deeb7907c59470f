package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limitedRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/api/v1/invoices", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.POST("/auth/login", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return r
}

func doGet(r *gin.Engine, remoteAddr, tenantID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	if tenantID != "" {
		req.Header.Set("X-Tenant-ID", tenantID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doLogin(r *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiter_Allow(t *testing.T) {
	t.Run("budget per key", func(t *testing.T) {
		limiter := NewRateLimiter(3, time.Minute)

		for i := 0; i < 3; i++ {
			assert.True(t, limiter.Allow("tenant-1"), "request %d", i+1)
		}
		assert.False(t, limiter.Allow("tenant-1"))

		// A different key has its own budget.
		assert.True(t, limiter.Allow("tenant-2"))
	})

	t.Run("window rollover refills", func(t *testing.T) {
		limiter := NewRateLimiter(2, 50*time.Millisecond)

		assert.True(t, limiter.Allow("k"))
		assert.True(t, limiter.Allow("k"))
		assert.False(t, limiter.Allow("k"))

		time.Sleep(60 * time.Millisecond)
		assert.True(t, limiter.Allow("k"))
	})

	t.Run("remaining", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		assert.Equal(t, 5, limiter.Remaining("fresh"))
		limiter.Allow("fresh")
		limiter.Allow("fresh")
		assert.Equal(t, 3, limiter.Remaining("fresh"))
	})

	t.Run("concurrent callers never exceed the budget", func(t *testing.T) {
		limiter := NewRateLimiter(100, time.Minute)

		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0
		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("shared") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, allowed)
	})
}

func TestRateLimit(t *testing.T) {
	t.Run("429 with error code once exhausted", func(t *testing.T) {
		r := limitedRouter(RateLimit(NewRateLimiter(2, time.Minute)))

		assert.Equal(t, http.StatusOK, doGet(r, "", "").Code)
		assert.Equal(t, http.StatusOK, doGet(r, "", "").Code)

		w := doGet(r, "", "")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
	})

	t.Run("advertises the budget via headers", func(t *testing.T) {
		r := limitedRouter(RateLimit(NewRateLimiter(5, time.Minute)))

		w := doGet(r, "", "")
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("tenant header scopes the key", func(t *testing.T) {
		r := limitedRouter(RateLimit(NewRateLimiter(1, time.Minute)))

		assert.Equal(t, http.StatusOK, doGet(r, "", "tenant-1").Code)
		assert.Equal(t, http.StatusTooManyRequests, doGet(r, "", "tenant-1").Code)
		assert.Equal(t, http.StatusOK, doGet(r, "", "tenant-2").Code)
	})
}

func TestRateLimitByKey(t *testing.T) {
	byUser := func(c *gin.Context) string { return c.GetHeader("X-User-ID") }
	r := limitedRouter(RateLimitByKey(NewRateLimiter(1, time.Minute), byUser))

	get := func(userID string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices", nil)
		req.Header.Set("X-User-ID", userID)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, get("user-1"))
	assert.Equal(t, http.StatusTooManyRequests, get("user-1"))
	assert.Equal(t, http.StatusOK, get("user-2"))
}

func TestAuthRateLimit(t *testing.T) {
	t.Run("auth-specific error and Retry-After once exhausted", func(t *testing.T) {
		r := limitedRouter(AuthRateLimit(NewRateLimiter(1, time.Minute)))

		assert.Equal(t, http.StatusOK, doLogin(r, "196.21.8.44:50412").Code)

		w := doLogin(r, "196.21.8.44:50412")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_RATE_LIMIT_EXCEEDED")
		assert.Contains(t, w.Body.String(), "Too many authentication attempts")
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
	})

	t.Run("budgets are per IP", func(t *testing.T) {
		r := limitedRouter(AuthRateLimit(NewRateLimiter(1, time.Minute)))

		assert.Equal(t, http.StatusOK, doLogin(r, "10.0.0.1:50412").Code)
		assert.Equal(t, http.StatusTooManyRequests, doLogin(r, "10.0.0.1:50412").Code)
		assert.Equal(t, http.StatusOK, doLogin(r, "10.0.0.2:50412").Code)
	})

	t.Run("headers advertise the auth budget", func(t *testing.T) {
		r := limitedRouter(AuthRateLimit(NewRateLimiter(5, time.Minute)))

		w := doLogin(r, "10.0.0.3:50412")
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("auth prefix keeps the key apart from the global limiter", func(t *testing.T) {
		shared := NewRateLimiter(2, time.Minute)

		gin.SetMode(gin.TestMode)
		r := gin.New()
		auth := r.Group("/auth", AuthRateLimit(shared))
		auth.POST("/login", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
		api := r.Group("/api", RateLimit(shared))
		api.GET("/data", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
			req.RemoteAddr = "10.0.0.9:50412"
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code)
		}

		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "10.0.0.9:50412"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)

		// The plain key still has its own budget.
		req = httptest.NewRequest(http.MethodGet, "/api/data", nil)
		req.RemoteAddr = "10.0.0.9:50412"
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

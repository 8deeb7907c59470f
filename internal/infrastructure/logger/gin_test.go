package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("User-Agent", "square15-test")
	router.ServeHTTP(w, req)
	return w
}

func TestGinMiddleware_LogsRequest(t *testing.T) {
	log, logs := newObservedLogger()

	router := gin.New()
	router.Use(GinMiddleware(log))
	router.GET("/api/v1/invoices", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := performRequest(router, http.MethodGet, "/api/v1/invoices?page=2")
	assert.Equal(t, http.StatusOK, w.Code)

	entries := logs.All()
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.Equal(t, "HTTP Request", entry.Message)

	fields := entry.ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/v1/invoices", fields["path"])
	assert.Equal(t, "page=2", fields["query"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "square15-test", fields["user_agent"])
}

func TestGinMiddleware_LevelTracksStatus(t *testing.T) {
	cases := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusCreated, zapcore.InfoLevel},
		{http.StatusNotFound, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tc := range cases {
		log, logs := newObservedLogger()

		router := gin.New()
		router.Use(GinMiddleware(log))
		router.GET("/status", func(c *gin.Context) {
			c.Status(tc.status)
		})

		performRequest(router, http.MethodGet, "/status")

		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, tc.level, entries[0].Level, "status %d", tc.status)
	}
}

func TestGinMiddleware_CollectsGinErrors(t *testing.T) {
	log, logs := newObservedLogger()

	router := gin.New()
	router.Use(GinMiddleware(log))
	router.GET("/fail", func(c *gin.Context) {
		_ = c.Error(assert.AnError)
		c.Status(http.StatusBadRequest)
	})

	performRequest(router, http.MethodGet, "/fail")

	entries := logs.All()
	require.Len(t, entries, 1)
	errs, ok := entries[0].ContextMap()["errors"].([]string)
	require.True(t, ok)
	assert.NotEmpty(t, errs)
}

func TestRecovery_LogsPanicAndReturns500(t *testing.T) {
	log, logs := newObservedLogger()

	router := gin.New()
	router.Use(Recovery(log))
	router.GET("/panic", func(c *gin.Context) {
		panic("billing run exploded")
	})

	w := performRequest(router, http.MethodGet, "/panic")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Panic recovered", entries[0].Message)
	assert.Equal(t, "/panic", entries[0].ContextMap()["path"])
}

func TestGetGinLogger_FromMiddleware(t *testing.T) {
	log, _ := newObservedLogger()

	router := gin.New()
	router.Use(GinMiddleware(log))
	router.GET("/ping", func(c *gin.Context) {
		reqLogger := GetGinLogger(c)
		require.NotNil(t, reqLogger)
		reqLogger.Info("inside handler")
		c.Status(http.StatusOK)
	})

	performRequest(router, http.MethodGet, "/ping")
}

func TestGetGinLogger_WithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	log := GetGinLogger(c)
	require.NotNil(t, log)
	log.Info("noop logger must not panic")
}

func TestGetGinLogger_WrongTypeFallsBack(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set(ginLoggerKey, "not a logger")

	log := GetGinLogger(c)
	require.NotNil(t, log)
}

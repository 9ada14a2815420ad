package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/todolist/todo-service/pkg/metrics"
)

func init() { gin.SetMode(gin.TestMode) }

func limitedEngine(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw)
	ok := func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) }
	r.GET("/api/todos", ok)
	r.GET("/health", ok)
	return r
}

func hit(r *gin.Engine, path, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if remote != "" {
		req.RemoteAddr = remote
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	before := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))
	r := limitedEngine(RateLimit(RateLimitOptions{RPS: 10, Burst: 2}))

	require.Equal(t, http.StatusOK, hit(r, "/api/todos", "").Code)
	require.Equal(t, http.StatusOK, hit(r, "/api/todos", "").Code)
	require.Equal(t, before+2, testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory")))
}

func TestRateLimit_BlocksWhenExceeded(t *testing.T) {
	before := testutil.ToFloat64(metrics.RateLimitRejected.WithLabelValues("memory"))
	// one token, refilled every 50ms
	r := limitedEngine(RateLimit(RateLimitOptions{RPS: 20, Burst: 1}))

	require.Equal(t, http.StatusOK, hit(r, "/api/todos", "").Code)

	w := hit(r, "/api/todos", "")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "1", w.Header().Get("Retry-After"))
	require.JSONEq(t, `{"message":"rate limit exceeded"}`, w.Body.String())
	require.Equal(t, before+1, testutil.ToFloat64(metrics.RateLimitRejected.WithLabelValues("memory")))

	time.Sleep(120 * time.Millisecond)
	require.Equal(t, http.StatusOK, hit(r, "/api/todos", "").Code)
}

func TestRateLimit_SeparatesClients(t *testing.T) {
	r := limitedEngine(RateLimit(RateLimitOptions{RPS: 0.1, Burst: 1}))

	require.Equal(t, http.StatusOK, hit(r, "/api/todos", "10.0.0.1:1111").Code)
	// same IP, different port
	require.Equal(t, http.StatusTooManyRequests, hit(r, "/api/todos", "10.0.0.1:2222").Code)
	require.Equal(t, http.StatusOK, hit(r, "/api/todos", "10.0.0.2:1111").Code)
}

func TestRateLimit_ExemptPaths(t *testing.T) {
	r := limitedEngine(RateLimit(RateLimitOptions{RPS: 0.1, Burst: 1, Exempt: []string{"/health"}}))

	require.Equal(t, http.StatusOK, hit(r, "/api/todos", "").Code)
	require.Equal(t, http.StatusTooManyRequests, hit(r, "/api/todos", "").Code)
	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusOK, hit(r, "/health", "").Code)
	}
}

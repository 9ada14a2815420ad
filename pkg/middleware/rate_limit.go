package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/todolist/todo-service/pkg/metrics"
	"golang.org/x/time/rate"
)

// RateLimitOptions configures RateLimit and RedisRateLimit.
type RateLimitOptions struct {
	// RPS is the sustained request rate allowed per client.
	RPS   float64
	Burst int
	// Window is the fixed-window length of the Redis limiter (default 1s).
	Window time.Duration
	// Exempt lists path prefixes that are never limited, e.g. "/health".
	Exempt []string
}

func (o RateLimitOptions) exempt(path string) bool {
	for _, p := range o.Exempt {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// clientKey picks the limiter key for a request: the client IP as seen by Gin.
func clientKey(c *gin.Context) string {
	ip := c.ClientIP()
	if ip == "" {
		ip = "unknown"
	}
	return "ip:" + ip
}

func reject(c *gin.Context, limiter string, retryAfter int) {
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	metrics.RateLimitRejected.WithLabelValues(limiter).Inc()
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": "rate limit exceeded"})
}

// RateLimit enforces a token bucket per client IP in process memory.
// Each middleware instance keeps its own limiter set.
func RateLimit(opts RateLimitOptions) gin.HandlerFunc {
	var limiters sync.Map // client key -> *rate.Limiter
	limiterFor := func(key string) *rate.Limiter {
		if v, ok := limiters.Load(key); ok {
			return v.(*rate.Limiter)
		}
		v, _ := limiters.LoadOrStore(key, rate.NewLimiter(rate.Limit(opts.RPS), opts.Burst))
		return v.(*rate.Limiter)
	}

	return func(c *gin.Context) {
		if opts.exempt(c.Request.URL.Path) {
			c.Next()
			return
		}
		if !limiterFor(clientKey(c)).Allow() {
			reject(c, "memory", 1)
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
		c.Next()
	}
}

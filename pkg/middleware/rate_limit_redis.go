package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/todolist/todo-service/pkg/logger"
	"github.com/todolist/todo-service/pkg/metrics"
)

// RedisRateLimit is a fixed-window limiter shared by every instance using the
// same Redis. Each client gets floor(RPS*window)+Burst requests per window.
// With a nil client it behaves like RateLimit.
func RedisRateLimit(client *redis.Client, opts RateLimitOptions) gin.HandlerFunc {
	if client == nil {
		return RateLimit(opts)
	}
	windowSeconds := int(opts.Window.Seconds())
	if windowSeconds <= 0 {
		windowSeconds = 1
	}
	allowed := int64(opts.RPS*float64(windowSeconds)) + int64(opts.Burst)
	ttl := time.Duration(windowSeconds+1) * time.Second

	return func(c *gin.Context) {
		if opts.exempt(c.Request.URL.Path) {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		bucket := time.Now().Unix() / int64(windowSeconds)
		key := fmt.Sprintf("todo:rl:%s:%d", clientKey(c), bucket)

		// INCR and EXPIRE in one round trip
		pipe := client.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			logger.With("limiter", "redis").Errorf("rate limit check failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "rate limit check failed"})
			return
		}
		if incr.Val() > allowed {
			reject(c, "redis", windowSeconds)
			return
		}
		metrics.RateLimitAllowed.WithLabelValues("redis").Inc()
		c.Next()
	}
}

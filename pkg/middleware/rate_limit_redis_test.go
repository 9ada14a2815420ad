package middleware

import (
	"net/http"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisRateLimit_Basic(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	defer client.Close()

	// one request per minute-long window
	r := limitedEngine(RedisRateLimit(client, RateLimitOptions{Burst: 1, Window: time.Minute, Exempt: []string{"/health"}}))

	require.Equal(t, http.StatusOK, hit(r, "/api/todos", "").Code)

	w := hit(r, "/api/todos", "")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.Equal(t, "60", w.Header().Get("Retry-After"))

	require.Equal(t, http.StatusOK, hit(r, "/health", "").Code)

	keys := m.Keys()
	require.Len(t, keys, 1)
	require.Greater(t, m.TTL(keys[0]), time.Duration(0))

	// advance miniredis clock past the bucket TTL and the counter is gone
	m.FastForward(2 * time.Minute)
	require.Equal(t, http.StatusOK, hit(r, "/api/todos", "").Code)
}

func TestRedisRateLimit_RedisDown(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	addr := m.Addr()
	m.Close()

	client := redis.NewClient(&redis.Options{Addr: addr, MaxRetries: -1, DialTimeout: 200 * time.Millisecond})
	defer client.Close()
	r := limitedEngine(RedisRateLimit(client, RateLimitOptions{RPS: 1, Burst: 1, Window: time.Second}))

	require.Equal(t, http.StatusInternalServerError, hit(r, "/api/todos", "").Code)
}

func TestRedisRateLimit_NilClientFallsBack(t *testing.T) {
	r := limitedEngine(RedisRateLimit(nil, RateLimitOptions{RPS: 10, Burst: 1}))
	require.Equal(t, http.StatusOK, hit(r, "/api/todos", "").Code)
}

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"loan-ledger/internal/config"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("backend unavailable")
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
}

func TestRateLimiterMiddleware(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, Backend: BackendMemory, RPS: 1, Burst: 2}
	handler := NewRateLimiterMiddleware(cfg, NewMemoryLimiter(cfg.RPS, cfg.Burst), testLogger).Middleware(okHandler())

	serve := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, serve("127.0.0.1:1000").Code)
	assert.Equal(t, http.StatusOK, serve("127.0.0.1:1001").Code)

	blocked := serve("127.0.0.1:1002")
	require.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "1", blocked.Header().Get("Retry-After"))
	var body map[string]string
	require.NoError(t, json.NewDecoder(blocked.Body).Decode(&body))
	assert.Equal(t, "Rate limit exceeded", body["message"])

	assert.Equal(t, http.StatusOK, serve("10.0.0.9:1000").Code, "other clients keep their own bucket")
}

func TestRateLimiterMiddleware_Disabled(t *testing.T) {
	handler := NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: true}, nil, testLogger).Middleware(okHandler())
	for range 5 {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiterMiddleware_FailsOpen(t *testing.T) {
	handler := NewRateLimiterMiddleware(config.RateLimitConfig{Enabled: true}, failingLimiter{}, testLogger).Middleware(okHandler())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExtractIP(t *testing.T) {
	rl := NewRateLimiterMiddleware(config.RateLimitConfig{}, nil, testLogger)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "192.168.1.1, 10.0.0.1")
	assert.Equal(t, "192.168.1.1", rl.extractIP(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "garbage")
	req.Header.Set("X-Real-IP", "10.0.0.1")
	assert.Equal(t, "10.0.0.1", rl.extractIP(req))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "127.0.0.1:12345"
	assert.Equal(t, "127.0.0.1", rl.extractIP(req))
}

func TestMemoryLimiter_EvictsIdleKeys(t *testing.T) {
	limiter := NewMemoryLimiter(1, 1)
	now := time.Now()
	limiter.now = func() time.Time { return now }

	allowed, err := limiter.Allow(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, allowed)

	now = now.Add(limiterIdleTTL + time.Second)
	limiter.evictIdle()
	assert.Empty(t, limiter.visitors)
}

func TestRedisLimiter_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	_, err := NewRedisLimiter(client, 5, time.Second).Allow(context.Background(), "127.0.0.1")
	assert.Error(t, err)
}

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"loan-ledger/internal/config"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"

	limiterIdleTTL = 10 * time.Minute
)

// Limiter decides whether one more request from key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter keeps one token bucket per key in process memory.
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
}

func NewMemoryLimiter(rps float64, burst int) *MemoryLimiter {
	return &MemoryLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
	}
}

func (m *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	v, ok := m.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1), nil
}

// Cleanup forgets keys idle for longer than limiterIdleTTL until ctx is done.
func (m *MemoryLimiter) Cleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.evictIdle()
		}
	}
}

func (m *MemoryLimiter) evictIdle() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-limiterIdleTTL)
	for key, v := range m.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(m.visitors, key)
		}
	}
}

// RedisLimiter counts requests per key in fixed windows shared by every instance.
type RedisLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: int64(limit), window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	key = "ratelimit:" + key

	pipe := l.client.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	ttlCmd := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit pipeline: %w", err)
	}

	count, err := incrCmd.Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	// A negative TTL means the key was just created or lost its expiry.
	if ttl, err := ttlCmd.Result(); err == nil && ttl < 0 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return count <= l.limit, nil
}

type RateLimiterMiddleware struct {
	limiter Limiter
	cfg     config.RateLimitConfig
	logger  *slog.Logger
}

func NewRateLimiterMiddleware(cfg config.RateLimitConfig, limiter Limiter, logger *slog.Logger) *RateLimiterMiddleware {
	logger = logger.With("component", "RateLimiter")
	if cfg.Enabled && limiter == nil {
		logger.Warn("Rate limiting enabled but no limiter provided; disabling.")
		cfg.Enabled = false
	}
	return &RateLimiterMiddleware{limiter: limiter, cfg: cfg, logger: logger}
}

func (rl *RateLimiterMiddleware) extractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); net.ParseIP(ip) != nil {
			return ip
		}
	}

	if xRealIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(xRealIP) != nil {
		return xRealIP
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func (rl *RateLimiterMiddleware) Middleware(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := rl.extractIP(r)

		allowed, err := rl.limiter.Allow(r.Context(), ip)
		if err != nil {
			// Fail open.
			rl.logger.ErrorContext(r.Context(), "Rate limiter check failed", slog.String("ip", ip), slog.Any("error", err))
			next.ServeHTTP(w, r)
			return
		}
		if !allowed {
			rl.logger.WarnContext(r.Context(), "Rate limit exceeded", slog.String("ip", ip))
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

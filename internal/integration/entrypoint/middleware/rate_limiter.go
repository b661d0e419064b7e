package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	domainerror "github.com/quickmate/backend/internal/domain/error"
	"github.com/quickmate/backend/internal/integration/entrypoint/dto"
)

const (
	// defaultMaxAttempts is the default number of allowed attempts per window.
	defaultMaxAttempts = 5
	// defaultWindowDuration is the default time window for rate limiting.
	defaultWindowDuration = 15 * time.Minute
)

// RateLimitStore counts attempts per key inside a fixed window.
type RateLimitStore interface {
	// Allow records an attempt and reports whether it is within the limit.
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimiter provides IP-based rate limiting functionality.
type RateLimiter struct {
	store          RateLimitStore
	name           string
	maxAttempts    int
	windowDuration time.Duration
}

// NewRateLimiter creates an in-memory rate limiter with default settings.
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(defaultMaxAttempts, defaultWindowDuration)
}

// NewRateLimiterWithConfig creates an in-memory rate limiter with custom settings.
func NewRateLimiterWithConfig(maxAttempts int, windowDuration time.Duration) *RateLimiter {
	return NewRateLimiterWithStore(NewMemoryStore(), "default", maxAttempts, windowDuration)
}

// NewRateLimiterWithStore creates a rate limiter backed by the given store. name keeps
// the counters of different limiters sharing a store apart.
func NewRateLimiterWithStore(store RateLimitStore, name string, maxAttempts int, windowDuration time.Duration) *RateLimiter {
	return &RateLimiter{
		store:          store,
		name:           name,
		maxAttempts:    maxAttempts,
		windowDuration: windowDuration,
	}
}

// Middleware returns a Gin middleware handler that enforces rate limiting.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip rate limiting in E2E mode or test environment
		if os.Getenv("E2E_MODE") == "true" || os.Getenv("ENV") == "test" {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		if clientIP == "" {
			clientIP = c.Request.RemoteAddr
		}

		allowed, err := rl.store.Allow(c.Request.Context(), rl.name+":"+clientIP, rl.maxAttempts, rl.windowDuration)
		if err != nil {
			// Fail open.
			slog.Warn("Rate limit check failed", "limiter", rl.name, "error", err)
			c.Next()
			return
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, dto.ErrorResponse{
				Error: "Too many requests. Please try again later.",
				Code:  string(domainerror.ErrCodeRateLimited),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// rateLimitEntry tracks rate limit data for a single key.
type rateLimitEntry struct {
	attempts  int
	resetTime time.Time
}

// MemoryStore keeps counters in process memory. Counters are per instance.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*rateLimitEntry
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*rateLimitEntry),
		now:     time.Now,
	}
}

// Allow implements RateLimitStore.
func (s *MemoryStore) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	entry, exists := s.entries[key]
	if !exists || now.After(entry.resetTime) {
		s.entries[key] = &rateLimitEntry{
			attempts:  1,
			resetTime: now.Add(window),
		}
		return true, nil
	}

	if entry.attempts < limit {
		entry.attempts++
		return true, nil
	}
	return false, nil
}

// Reset clears the store state (useful for testing).
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*rateLimitEntry)
}

// Cleanup removes expired entries (can be called periodically to free memory).
func (s *MemoryStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.entries {
		if now.After(entry.resetTime) {
			delete(s.entries, key)
		}
	}
}

// RedisStore keeps fixed-window counters in Redis so every instance shares them.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a Redis-backed store. Keys are namespaced with prefix.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Allow implements RateLimitStore.
func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	redisKey := s.prefix + key

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}
	if count == 1 {
		if err := s.client.Expire(ctx, redisKey, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}
	return count <= int64(limit), nil
}

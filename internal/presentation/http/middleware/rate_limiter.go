package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/fms-api/internal/config"
	"github.com/sangkips/fms-api/internal/presentation/http/dto/response"
	"golang.org/x/time/rate"
)

// RateLimiter limits requests per caller. Authenticated callers are keyed by
// user id, anonymous ones by client IP.
type RateLimiter struct {
	limiters map[string]*rateLimiterEntry
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	entryTTL time.Duration
	done     chan struct{}
	stopOnce sync.Once
}

type rateLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterConfig holds configuration for the rate limiter
type RateLimiterConfig struct {
	RequestsPerSecond float64
	BurstSize         int
	CleanupInterval   time.Duration
	EntryTTL          time.Duration
}

// RateLimiterConfigFrom converts "Requests per Duration seconds" settings
func RateLimiterConfigFrom(cfg config.RateLimitConfig) RateLimiterConfig {
	requests, seconds := cfg.Requests, cfg.Duration
	if requests <= 0 {
		requests = 100
	}
	if seconds <= 0 {
		seconds = 60
	}
	return RateLimiterConfig{
		RequestsPerSecond: float64(requests) / float64(seconds),
		BurstSize:         requests,
		CleanupInterval:   5 * time.Minute,
		EntryTTL:          10 * time.Minute,
	}
}

// NewRateLimiter creates a limiter and starts its cleanup loop. Call Stop to
// end the loop.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*rateLimiterEntry),
		rate:     rate.Limit(cfg.RequestsPerSecond),
		burst:    cfg.BurstSize,
		entryTTL: cfg.EntryTTL,
		done:     make(chan struct{}),
	}
	go rl.cleanupLoop(cfg.CleanupInterval)
	return rl
}

// Stop ends the cleanup loop
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if entry, ok := rl.limiters[key]; ok {
		entry.lastSeen = time.Now()
		return entry.limiter
	}

	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters[key] = &rateLimiterEntry{limiter: limiter, lastSeen: time.Now()}
	return limiter
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.done:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-rl.entryTTL)
	for key, entry := range rl.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
}

func limiterKey(c *gin.Context) string {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return "user:" + id.String()
		}
	}
	return "ip:" + c.ClientIP()
}

// Middleware returns a Gin middleware that applies the limit
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := rl.getLimiter(limiterKey(c))
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.burst))

		if !limiter.Allow() {
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("Retry-After", "1")
			response.TooManyRequests(c, "Rate limit exceeded. Please try again later.")
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
		c.Next()
	}
}

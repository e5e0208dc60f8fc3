package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/amrivadeneyra/lunari-sub002/pkg/response"
)

// RateLimitConfig configures the per-client token bucket
type RateLimitConfig struct {
	// Tokens added per second (0 disables limiting)
	RequestsPerSecond float64
	// Bucket capacity
	Burst int
	// How long an idle client is remembered
	EntryTTL time.Duration
}

// DefaultRateLimitConfig allows short bursts of portal submissions
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             5,
		EntryTTL:          10 * time.Minute,
	}
}

type bucket struct {
	mu         sync.Mutex
	tokens     float64
	lastUpdate time.Time
}

// RateLimiter is an in-memory token bucket keyed by client
type RateLimiter struct {
	config  RateLimitConfig
	entries sync.Map
	now     func() time.Time
}

// NewRateLimiter creates a limiter. Idle entries are dropped by Sweep.
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.Burst <= 0 {
		config.Burst = 1
	}
	if config.EntryTTL <= 0 {
		config.EntryTTL = 10 * time.Minute
	}
	return &RateLimiter{config: config, now: time.Now}
}

// Allow takes a token for key and reports whether one was available
func (rl *RateLimiter) Allow(key string) bool {
	if rl.config.RequestsPerSecond <= 0 {
		return true
	}
	now := rl.now()

	v, _ := rl.entries.LoadOrStore(key, &bucket{tokens: float64(rl.config.Burst), lastUpdate: now})
	b := v.(*bucket)

	b.mu.Lock()
	defer b.mu.Unlock()

	elapsed := now.Sub(b.lastUpdate).Seconds()
	b.tokens = min(float64(rl.config.Burst), b.tokens+elapsed*rl.config.RequestsPerSecond)
	b.lastUpdate = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Sweep forgets clients idle for longer than EntryTTL
func (rl *RateLimiter) Sweep() {
	cutoff := rl.now().Add(-rl.config.EntryTTL)
	rl.entries.Range(func(key, value any) bool {
		b := value.(*bucket)
		b.mu.Lock()
		if b.lastUpdate.Before(cutoff) {
			rl.entries.Delete(key)
		}
		b.mu.Unlock()
		return true
	})
}

// RateLimit rejects clients that exhausted their bucket with 429
func RateLimit(rl *RateLimiter) gin.HandlerFunc {
	var calls uint64
	var mu sync.Mutex
	return func(c *gin.Context) {
		mu.Lock()
		calls++
		sweep := calls%1024 == 0
		mu.Unlock()
		if sweep {
			rl.Sweep()
		}

		if !rl.Allow(c.ClientIP()) {
			retryAfter := 1
			if rl.config.RequestsPerSecond > 0 && rl.config.RequestsPerSecond < 1 {
				retryAfter = int(1/rl.config.RequestsPerSecond + 0.5)
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			response.Abort(c, response.TooManyRequests(""))
			return
		}
		c.Next()
	}
}

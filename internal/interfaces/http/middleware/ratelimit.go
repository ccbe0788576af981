package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/ntwoods/dealerdocs/internal/shared/utils"
)

const (
	rateLimitMessage = "Too many sign-in attempts, please try again later."
	localIdleTTL     = 10 * time.Minute
	localPruneSize   = 1024
)

// RateLimiter limits requests per client IP. With a Redis client it uses a
// fixed-window counter shared by every instance; without one it falls back
// to an in-process token bucket per IP.
type RateLimiter struct {
	redisClient *redis.Client
	limit       int
	window      time.Duration
	prefix      string

	mu      sync.Mutex
	buckets map[string]*localBucket
}

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows limit requests per window. redisClient may be nil.
func NewRateLimiter(redisClient *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		redisClient: redisClient,
		limit:       limit,
		window:      window,
		prefix:      prefix,
		buckets:     make(map[string]*localBucket),
	}
}

// Limit returns a Gin middleware that enforces the rate limit per client IP.
// A non-positive limit disables it.
func (rl *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 || rl.allow(c.Request.Context(), c.ClientIP()) {
			c.Next()
			return
		}
		utils.ErrorResponse(c, http.StatusTooManyRequests, rateLimitMessage)
		c.Abort()
	}
}

func (rl *RateLimiter) allow(ctx context.Context, clientIP string) bool {
	if rl.redisClient == nil {
		return rl.allowLocal(clientIP, time.Now())
	}

	windowBucket := time.Now().Unix() / int64(rl.window.Seconds())
	key := fmt.Sprintf("%sratelimit:%s:%d", rl.prefix, clientIP, windowBucket)

	count, err := rl.redisClient.Incr(ctx, key).Result()
	if err != nil {
		// Redis being down must not lock everyone out of sign-in.
		return true
	}
	if count == 1 {
		rl.redisClient.Expire(ctx, key, rl.window+time.Second)
	}
	return count <= int64(rl.limit)
}

func (rl *RateLimiter) allowLocal(clientIP string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if len(rl.buckets) >= localPruneSize {
		for ip, b := range rl.buckets {
			if now.Sub(b.lastSeen) > localIdleTTL {
				delete(rl.buckets, ip)
			}
		}
	}

	b, ok := rl.buckets[clientIP]
	if !ok {
		every := rate.Every(rl.window / time.Duration(rl.limit))
		b = &localBucket{limiter: rate.NewLimiter(every, rl.limit)}
		rl.buckets[clientIP] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1)
}

package middlewares

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

// RateLimiter keeps one token bucket per key. limit requests refill evenly
// over window, and a client may burst up to limit at once.
type RateLimiter struct {
	mu        sync.Mutex
	every     rate.Limit
	burst     int
	clients   map[string]*clientBucket
	nextSweep time.Time
	now       func() time.Time
}

type clientBucket struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	if limit < 1 {
		limit = 1
	}
	return &RateLimiter{
		every:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		clients: make(map[string]*clientBucket),
		now:     time.Now,
	}
}

// RateLimiterMiddleware enforces the limit for the key derived by keyFn.
func (rl *RateLimiter) RateLimiterMiddleware(keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)

		if key == "" {
			// fallback to IP if key cannot be derived
			key = clientIP(c)
		}

		now := rl.now()
		res := rl.limiterFor(key, now).ReserveN(now, 1)
		delay := res.DelayFrom(now)

		if !res.OK() || delay > 0 {
			res.CancelAt(now)

			retryAfter := int(math.Ceil(delay.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			slog.Default().WarnContext(c.Request.Context(), "rate_limited",
				"route", c.FullPath(),
				"key", key,
			)

			abortWithError(c, http.StatusTooManyRequests, "rate_limited", "Too many requests. Please try again shortly.")
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) limiterFor(key string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.After(rl.nextSweep) {
		for k, b := range rl.clients {
			if now.Sub(b.lastAccess) > limiterIdleTTL {
				delete(rl.clients, k)
			}
		}
		rl.nextSweep = now.Add(limiterIdleTTL)
	}

	b, ok := rl.clients[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rl.every, rl.burst)}
		rl.clients[key] = b
	}
	b.lastAccess = now

	return b.limiter
}

// for unauthenticated endpoints: rate limit by IP
func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

// For authenticated endpoints: rate limit by userID if available
func KeyByUserOrIP(c *gin.Context) string {
	id, ok := UserIDFromContext(c)

	if ok && id != "" {
		return "user:" + id
	}

	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	ip := c.ClientIP()

	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}

package middleware

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiterStore holds a map of IP addresses to their rate limiters.
type rateLimiterStore struct {
	perMinute int
	limiters  map[string]*limiterEntry
	mu        sync.Mutex
}

func newRateLimiterStore(perMinute int) *rateLimiterStore {
	return &rateLimiterStore{
		perMinute: perMinute,
		limiters:  make(map[string]*limiterEntry),
	}
}

// getLimiter returns the rate limiter for a given IP, creating one if it doesn't exist.
func (s *rateLimiterStore) getLimiter(ip string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.limiters[ip]
	if !exists {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(s.perMinute)), s.perMinute),
		}
		s.limiters[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter
}

// sweep forgets clients idle for longer than idle.
func (s *rateLimiterStore) sweep(now time.Time, idle time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ip, e := range s.limiters {
		if now.Sub(e.lastSeen) > idle {
			delete(s.limiters, ip)
		}
	}
}

// RateLimitMiddleware limits requests per client IP to perMinute.
func RateLimitMiddleware(perMinute int) gin.HandlerFunc {
	if perMinute < 1 {
		perMinute = 1
	}
	store := newRateLimiterStore(perMinute)
	var requests atomic.Uint64

	return func(c *gin.Context) {
		now := time.Now()
		ip := c.ClientIP()
		limiter := store.getLimiter(ip, now)

		if requests.Add(1)%1024 == 0 {
			store.sweep(now, 10*time.Minute)
		}

		if !limiter.Allow() {
			zap.L().Warn("Rate limit exceeded", zap.String("ip", ip))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Try again later."})
			return
		}
		c.Next()
	}
}

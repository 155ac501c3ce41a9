// internal/middleware/rate_limit.go
package middleware

import (
	"sync"
	"time"

	"github.com/farmlink/market-backend/internal/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type rateLimiterStore struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newRateLimiterStore(r rate.Limit, burst int) *rateLimiterStore {
	store := &rateLimiterStore{
		limiters: make(map[string]*rate.Limiter),
		rate:     r,
		burst:    burst,
	}
	go store.cleanup()
	return store
}

func (s *rateLimiterStore) get(key string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	limiter, exists := s.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(s.rate, s.burst)
		s.limiters[key] = limiter
	}
	return limiter
}

// cleanup periodically drops the limiter map so idle clients don't leak.
func (s *rateLimiterStore) cleanup() {
	for range time.Tick(10 * time.Minute) {
		s.mu.Lock()
		s.limiters = make(map[string]*rate.Limiter)
		s.mu.Unlock()
	}
}

func limitBy(store *rateLimiterStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if userID, ok := utils.GetUserIDFromContext(c); ok {
			key = userID
		}

		if !store.get(key).Allow() {
			utils.ErrorResponse(c, 429, "RATE_LIMITED", "Too many requests", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// GeneralRateLimit covers the whole API: 10 requests per second with a burst
// of 30.
func GeneralRateLimit() gin.HandlerFunc {
	return limitBy(newRateLimiterStore(rate.Limit(10), 30))
}

// AuthRateLimit protects login and registration: 1 request per second with a
// burst of 5.
func AuthRateLimit() gin.HandlerFunc {
	return limitBy(newRateLimiterStore(rate.Limit(1), 5))
}

// UploadRateLimit protects file uploads: 1 request per 2 seconds with a
// burst of 3.
func UploadRateLimit() gin.HandlerFunc {
	return limitBy(newRateLimiterStore(rate.Limit(0.5), 3))
}

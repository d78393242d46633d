package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter throttles trading requests per participant. One request per
// interval is enough for a human clicking a lab screen; anything faster is
// a misbehaving client.
type RateLimiter struct {
	participants map[string]time.Time
	mu           sync.Mutex
	limit        time.Duration
}

func NewRateLimiter(limit time.Duration) *RateLimiter {
	return &RateLimiter{
		participants: make(map[string]time.Time),
		limit:        limit,
	}
}

func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		participantID := c.GetHeader("X-Participant-ID")
		if participantID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "X-Participant-ID header required"})
			c.Abort()
			return
		}
		key := c.Param("market") + "/" + participantID
		r.mu.Lock()
		last, exists := r.participants[key]
		if exists && time.Since(last) < r.limit {
			r.mu.Unlock()
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		r.participants[key] = time.Now()
		r.mu.Unlock()
		c.Next()
	}
}

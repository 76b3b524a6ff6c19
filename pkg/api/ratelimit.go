package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdleTimeout = 10 * time.Minute

// signupLimiter holds one token bucket per user
type signupLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newSignupLimiter allows perMinute signups per user, bursting up to perMinute.
// A non-positive perMinute disables limiting.
func newSignupLimiter(perMinute int) *signupLimiter {
	rl := &signupLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Inf,
		burst:    1,
	}
	if perMinute > 0 {
		rl.limit = rate.Every(time.Minute / time.Duration(perMinute))
		rl.burst = perMinute
	}
	return rl
}

// getLimiter returns the user's limiter, creating it on first use and
// evicting users idle for longer than limiterIdleTimeout
func (rl *signupLimiter) getLimiter(userID string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for id, v := range rl.visitors {
		if now.Sub(v.lastSeen) > limiterIdleTimeout {
			delete(rl.visitors, id)
		}
	}

	v, exists := rl.visitors[userID]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[userID] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Limit rejects the caller's request once their bucket is empty. Must run after AuthMiddleware.
func (rl *signupLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.getLimiter(claimsFrom(c).Subject).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}

package middlewares

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/utils"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	idle    time.Duration
	message string
	ips     map[string]*visitor
	mu      sync.Mutex
}

// NewRateLimiter allows `requests` per `interval` seconds for each IP.
func NewRateLimiter(requests int, interval int) *RateLimiter {
	every := time.Duration(interval) * time.Second / time.Duration(max(requests, 1))
	return &RateLimiter{
		limit:   rate.Every(every),
		burst:   requests,
		idle:    3 * time.Minute,
		message: "too many requests",
		ips:     make(map[string]*visitor),
	}
}

// NewStrictRateLimiter is for sign-in endpoints: 5 attempts per minute per IP.
func NewStrictRateLimiter() *RateLimiter {
	rl := NewRateLimiter(5, 60)
	rl.message = "too many attempts, please wait a moment"
	return rl
}

func (rl *RateLimiter) allow(ip string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, v := range rl.ips {
		if now.Sub(v.lastSeen) > rl.idle {
			delete(rl.ips, key)
		}
	}

	v, ok := rl.ips[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.ips[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP(), time.Now()) {
			utils.RespondError(c, http.StatusTooManyRequests, errors.New(rl.message))
			c.Abort()
			return
		}
		c.Next()
	}
}

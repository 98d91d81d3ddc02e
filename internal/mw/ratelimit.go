package mw

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ipLimiters hands out one token bucket per client IP.
type ipLimiters struct {
	mu    sync.Mutex
	byIP  map[string]*rate.Limiter
	limit rate.Limit
	burst int
}

func newIPLimiters(r rate.Limit, b int) *ipLimiters {
	return &ipLimiters{
		byIP:  make(map[string]*rate.Limiter),
		limit: r,
		burst: b,
	}
}

func (l *ipLimiters) limiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.byIP[ip]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.byIP[ip] = lim
	}
	return lim
}

// RateLimiter rejects clients that exceed r requests per second with a
// burst allowance of b.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	limiters := newIPLimiters(r, b)
	return func(c *gin.Context) {
		if !limiters.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}

package middleware

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	pkgErrors "task-intake-assistant/pkg/errors"
	"task-intake-assistant/pkg/response"
)

// Allow reports whether key may make another request now.
func (m Middleware) Allow(key string) bool {
	return m.limiter(key).Allow()
}

func (m Middleware) limiter(key string) *rate.Limiter {
	m.limiterMu.Lock()
	defer m.limiterMu.Unlock()

	limiter, ok := m.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(m.rate, m.burst)
		m.limiters.Add(key, limiter)
	}
	return limiter
}

// RateLimit throttles LLM-backed routes per user. Must run after Auth;
// requests without a scope are keyed by client IP.
func (m Middleware) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if sc, ok := GetScope(c.Request.Context()); ok {
			key = sc.UserID
		}
		if !m.Allow(key) {
			m.l.Warnf(c.Request.Context(), "middleware.RateLimit: rejected %s", key)
			response.Abort(c, pkgErrors.RateLimited(key))
			return
		}
		c.Next()
	}
}

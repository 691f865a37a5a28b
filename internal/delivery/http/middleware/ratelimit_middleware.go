package middleware

import (
	"sync"

	"nerves/config"
	domainerrors "nerves/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware throttles requests per client IP using a token bucket.
// Primarily protects the chat proxy, whose upstream calls are expensive.
type RateLimitMiddleware struct {
	perSecond rate.Limit
	burst     int

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewRateLimitMiddleware creates the limiter from config. A nil or zero
// config disables throttling.
func NewRateLimitMiddleware(cfg *config.Config) *RateLimitMiddleware {
	m := &RateLimitMiddleware{limiters: make(map[string]*rate.Limiter)}
	if cfg.RateLimit != nil && cfg.RateLimit.PerSecond > 0 {
		m.perSecond = rate.Limit(cfg.RateLimit.PerSecond)
		m.burst = cfg.RateLimit.Burst
		if m.burst <= 0 {
			m.burst = 1
		}
	}

	return m
}

// Limit rejects requests that exceed the per-IP budget with a 429.
func (m *RateLimitMiddleware) Limit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if m.perSecond <= 0 {
			return next(c)
		}

		if !m.limiterFor(c.RealIP()).Allow() {
			return domainerrors.ErrRateLimited
		}

		return next(c)
	}
}

func (m *RateLimitMiddleware) limiterFor(ip string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	limiter, ok := m.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(m.perSecond, m.burst)
		m.limiters[ip] = limiter
	}

	return limiter
}

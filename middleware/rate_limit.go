package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/hyeonlab/unihub/config"
	"github.com/hyeonlab/unihub/utils"
)

type rateLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

var (
	limiters   = map[string]*rateLimiter{}
	limitersMu sync.Mutex
)

// RateLimitMiddleware applies a per-IP token bucket.
func RateLimitMiddleware() gin.HandlerFunc {
	cfg := config.Get()
	perMinute := cfg.RateLimitPerMinute
	if perMinute < 1 {
		perMinute = 1
	}
	limit := rate.Every(time.Minute / time.Duration(perMinute))
	burst := perMinute / 2
	if burst < 1 {
		burst = 1
	}

	return func(ctx *gin.Context) {
		if !getLimiter(ctx.ClientIP(), limit, burst).Allow() {
			utils.Error(ctx, 429, 42901, "rate limit exceeded")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

func getLimiter(key string, limit rate.Limit, burst int) *rate.Limiter {
	limitersMu.Lock()
	defer limitersMu.Unlock()

	now := time.Now()
	for k, l := range limiters {
		if now.After(l.expires) {
			delete(limiters, k)
		}
	}

	if l, ok := limiters[key]; ok {
		l.expires = now.Add(5 * time.Minute)
		return l.limiter
	}
	l := &rateLimiter{limiter: rate.NewLimiter(limit, burst), expires: now.Add(5 * time.Minute)}
	limiters[key] = l
	return l.limiter
}

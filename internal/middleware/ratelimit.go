package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	pkgredis "github.com/rwtnews/site/internal/pkg/redis"
	"go.uber.org/zap"
)

// RateLimitOptions configures a fixed-window limiter. Name separates the
// counters of different limiters.
type RateLimitOptions struct {
	Name   string
	Max    int
	Window time.Duration
}

// RateLimit allows Max requests per client ip per Window. Redis errors let
// the request through.
func RateLimit(rc *pkgredis.Client, opts RateLimitOptions, log *zap.Logger) gin.HandlerFunc {
	if opts.Window <= 0 {
		opts.Window = time.Minute
	}
	if opts.Name == "" {
		opts.Name = "default"
	}
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if rc == nil || opts.Max <= 0 || ip == "" {
			c.Next()
			return
		}

		window := time.Now().UnixNano() / int64(opts.Window)
		key := fmt.Sprintf("rwt:rate_limit:%s:%s:%d", opts.Name, ip, window)

		count, err := rc.Incr(c.Request.Context(), key, opts.Window+time.Second)
		if err != nil {
			if log != nil {
				log.Warn("rate limit check failed", zap.String("limiter", opts.Name), zap.Error(err))
			}
			c.Next()
			return
		}

		if count > int64(opts.Max) {
			c.Header("Retry-After", strconv.Itoa(int(opts.Window/time.Second)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests. Please try again later.",
			})
			return
		}

		c.Next()
	}
}

package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	pkgredis "github.com/rwtnews/site/internal/pkg/redis"
)

const pingTimeout = 2 * time.Second

// RegisterRoutes mounts GET /healthz. Only redis is probed, never the CMS.
func RegisterRoutes(r gin.IRoutes, rc *pkgredis.Client) {
	r.GET("/healthz", func(c *gin.Context) {
		redisState := "disabled"
		status := "ok"
		code := http.StatusOK

		if rc != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
			err := rc.Ping(ctx)
			cancel()
			if err != nil {
				redisState = "error"
				status = "degraded"
				code = http.StatusServiceUnavailable
			} else {
				redisState = "ok"
			}
		}

		c.Header("Cache-Control", "no-store")
		c.JSON(code, gin.H{
			"status": status,
			"redis":  redisState,
		})
	})
}

package cache

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rwtnews/site/internal/middleware"
	"github.com/rwtnews/site/internal/pkg/response"
	"go.uber.org/zap"
)

// RegisterRoutes mounts POST /cache/purge. Nothing is mounted without a
// token or a redis client.
func RegisterRoutes(rg *gin.RouterGroup, rdb *redis.Client, token string, log *zap.Logger) {
	if rdb == nil || token == "" {
		return
	}
	if log == nil {
		log = zap.NewNop()
	}
	rg.POST("/cache/purge", func(c *gin.Context) {
		if !bearerMatches(c.GetHeader("Authorization"), token) {
			response.Error(c, http.StatusUnauthorized, "Unauthorized.")
			return
		}
		n, err := middleware.PurgeHTTPCache(c.Request.Context(), rdb)
		if err != nil {
			log.Error("purge page cache", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "Cache purge failed.")
			return
		}
		log.Info("page cache purged", zap.Int64("keys", n))
		response.OK(c, gin.H{"purged": n})
	})
}

func bearerMatches(header, token string) bool {
	got, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(token)) == 1
}

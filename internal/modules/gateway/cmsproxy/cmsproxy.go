// Package cmsproxy lets browser code read public CMS collections through
// the site origin. Requests are made as browser executions, so the server
// API token is never attached.
package cmsproxy

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rwtnews/site/internal/pkg/response"
	"github.com/rwtnews/site/internal/pkg/strapi"
	"go.uber.org/zap"
)

// Resources is the set of collections the proxy forwards.
var Resources = map[string]bool{
	"articles":          true,
	"opinions":          true,
	"memes":             true,
	"external-articles": true,
}

type Upstream interface {
	Do(ctx context.Context, method, path, rawQuery string, body io.Reader) ([]byte, error)
}

type Handler struct {
	up  Upstream
	log *zap.Logger
}

func NewHandler(up Upstream, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{up: up, log: log}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/cms/api/:resource", h.forward)
}

// GET /cms/api/:resource
func (h *Handler) forward(c *gin.Context) {
	resource := c.Param("resource")
	if !Resources[resource] {
		response.Error(c, http.StatusNotFound, "Unknown CMS resource.")
		return
	}

	ctx := strapi.WithExecution(c.Request.Context(), strapi.ExecutionBrowser)
	body, err := h.up.Do(ctx, http.MethodGet, "/"+resource, c.Request.URL.RawQuery, nil)
	if err != nil {
		var fe *strapi.FetchError
		if errors.As(err, &fe) {
			c.Data(fe.Status, "application/json; charset=utf-8", []byte(fe.Body))
			return
		}
		h.log.Warn("cms proxy failed", zap.String("resource", resource), zap.Error(err))
		response.BadGateway(c, "The content service is unreachable.")
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

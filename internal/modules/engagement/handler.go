package engagement

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rwtnews/site/internal/middleware"
	"github.com/rwtnews/site/internal/pkg/response"
	"go.uber.org/zap"
)

type Handler struct {
	store Store
	log   *zap.Logger
}

func NewHandler(store Store, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{store: store, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/engagement/:kind/:id")
	g.GET("", h.get)
	g.POST("/like", h.toggle)
}

// GET /api/engagement/:kind/:id
func (h *Handler) get(c *gin.Context) {
	key, ok := h.key(c)
	if !ok {
		return
	}
	counts, err := h.store.Get(c.Request.Context(), key, middleware.VisitorID(c))
	if err != nil {
		h.log.Error("read engagement failed", zap.Stringer("key", key), zap.Error(err))
		response.InternalError(c, errors.New("engagement is unavailable"))
		return
	}
	c.Header("Cache-Control", "private, no-store")
	response.OK(c, counts)
}

// POST /api/engagement/:kind/:id/like
func (h *Handler) toggle(c *gin.Context) {
	key, ok := h.key(c)
	if !ok {
		return
	}
	visitor := middleware.VisitorID(c)
	if visitor == "" {
		response.BadRequest(c, "missing visitor id")
		return
	}
	counts, err := h.store.Toggle(c.Request.Context(), key, visitor)
	if err != nil {
		h.log.Error("toggle like failed", zap.Stringer("key", key), zap.Error(err))
		response.InternalError(c, errors.New("engagement is unavailable"))
		return
	}
	response.OK(c, counts)
}

func (h *Handler) key(c *gin.Context) (Key, bool) {
	key, err := ParseKey(c.Param("kind"), c.Param("id"))
	if errors.Is(err, ErrUnsupportedKind) {
		response.NotFoundMsg(c, "engagement is only available for articles and opinions")
		return Key{}, false
	}
	if err != nil {
		response.BadRequest(c, err.Error())
		return Key{}, false
	}
	return key, true
}

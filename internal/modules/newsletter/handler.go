package newsletter

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rwtnews/site/internal/pkg/metrics"
	"github.com/rwtnews/site/internal/pkg/response"
	"go.uber.org/zap"
)

const (
	msgNotConfigured = "Service is not configured correctly on the server."
	msgInvalidEmail  = "A valid email address is required."
	msgInternal      = "An internal server error occurred. Please try again later."
	msgSuccess       = "Subscription successful! A confirmation email has been sent."
)

type Handler struct {
	svc *Service
	log *zap.Logger
}

func NewHandler(svc *Service, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes mounts POST /newsletter. Extra middleware (rate limiting)
// runs before the handler.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, mw ...gin.HandlerFunc) {
	rg.POST("/newsletter", append(mw, h.subscribe)...)
}

// subscribeRequest binds from JSON (site.js) or a plain form post.
type subscribeRequest struct {
	Email string `json:"email" form:"email"`
}

// POST /api/newsletter
func (h *Handler) subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBind(&req); err != nil {
		req = subscribeRequest{}
	}

	err := h.svc.Subscribe(c.Request.Context(), req.Email)
	switch {
	case err == nil:
		metrics.RecordSignup("ok")
		response.Message(c, http.StatusOK, msgSuccess)
	case errors.Is(err, ErrNotConfigured):
		metrics.RecordSignup("not_configured")
		h.log.Error("newsletter signup rejected: mail provider not configured")
		response.Error(c, http.StatusInternalServerError, msgNotConfigured)
	case errors.Is(err, ErrInvalidEmail):
		metrics.RecordSignup("invalid")
		response.Error(c, http.StatusBadRequest, msgInvalidEmail)
	default:
		metrics.RecordSignup("send_failed")
		h.log.Error("newsletter welcome email failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, msgInternal)
	}
}

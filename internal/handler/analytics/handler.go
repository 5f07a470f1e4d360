package analytics

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/petclinic-api/internal/service/analytics"
	"github.com/jwalitptl/petclinic-api/pkg/httputil"
)

type Handler struct {
	service *analytics.Service
}

func NewHandler(service *analytics.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Snapshot(c *gin.Context) {
	snapshot, err := h.service.Snapshot(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, snapshot)
}

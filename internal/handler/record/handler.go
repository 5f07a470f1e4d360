package record

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/petclinic-api/internal/middleware"
	"github.com/jwalitptl/petclinic-api/internal/service/record"
	apperrors "github.com/jwalitptl/petclinic-api/pkg/errors"
	"github.com/jwalitptl/petclinic-api/pkg/httputil"
)

type Handler struct {
	service *record.Service
}

func NewHandler(service *record.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListMyRecords(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	records, err := h.service.ListOwnerRecords(c.Request.Context(), userID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, records)
}

// ListCompleted returns only records whose visit window has ended, the view
// owners use to read finished visit write-ups.
func (h *Handler) ListCompleted(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	records, err := h.service.ListCompletedForOwner(c.Request.Context(), userID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, records)
}

func (h *Handler) PetHistory(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	records, err := h.service.ListPetHistory(c.Request.Context(), userID, c.Param("petName"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, records)
}

func (h *Handler) GetRecord(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewValidation("id"))
		return
	}

	rec, err := h.service.GetRecord(c.Request.Context(), userID, recordID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, rec)
}

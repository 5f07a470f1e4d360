package vet

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/petclinic-api/internal/model"
	"github.com/jwalitptl/petclinic-api/internal/service/vet"
	apperrors "github.com/jwalitptl/petclinic-api/pkg/errors"
	"github.com/jwalitptl/petclinic-api/pkg/httputil"
)

type Handler struct {
	service *vet.Service
}

func NewHandler(service *vet.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ListPendingBookings(c *gin.Context) {
	bookings, err := h.service.ListPendingBookings(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, bookings)
}

// GetBookingRecord returns a booking together with its paired medical
// record so the clinician can review both before completing the visit.
func (h *Handler) GetBookingRecord(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewValidation("id"))
		return
	}

	booking, record, err := h.service.BookingWithRecord(c.Request.Context(), bookingID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{
		"booking": booking,
		"record":  record,
	})
}

func (h *Handler) CompleteVisit(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.NewValidation("id"))
		return
	}

	var update model.RecordUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		httputil.RespondWithError(c, apperrors.NewValidation("body"))
		return
	}

	record, err := h.service.CompleteVisit(c.Request.Context(), bookingID, &update)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, record)
}

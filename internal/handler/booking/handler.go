package booking

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/petclinic-api/internal/middleware"
	"github.com/jwalitptl/petclinic-api/internal/model"
	"github.com/jwalitptl/petclinic-api/internal/service/booking"
	"github.com/jwalitptl/petclinic-api/internal/service/schedule"
	apperrors "github.com/jwalitptl/petclinic-api/pkg/errors"
	"github.com/jwalitptl/petclinic-api/pkg/httputil"
)

type Handler struct {
	service      *booking.Service
	pollInterval time.Duration
}

func NewHandler(service *booking.Service, pollInterval time.Duration) *Handler {
	return &Handler{service: service, pollInterval: pollInterval}
}

func (h *Handler) CreateBooking(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.NewValidation("body"))
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), userID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, created)
}

func (h *Handler) ListMyBookings(c *gin.Context) {
	userID, err := middleware.UserID(c)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	bookings, err := h.service.ListOwnerBookings(c.Request.Context(), userID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, bookings)
}

// BookingMeta serves the scheduling vocabulary the booking form needs:
// offered services with their durations, bookable time slots, accepted pet
// types, and the refresh cadence clients should poll at.
func (h *Handler) BookingMeta(c *gin.Context) {
	httputil.RespondWithSuccess(c, gin.H{
		"services":              schedule.ServiceDurations,
		"default_duration":      schedule.DefaultDuration,
		"time_slots":            schedule.TimeSlots,
		"pet_types":             schedule.PetTypes,
		"poll_interval_seconds": int(h.pollInterval.Seconds()),
	})
}

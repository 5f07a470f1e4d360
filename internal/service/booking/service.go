package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/petclinic-api/internal/email"
	"github.com/jwalitptl/petclinic-api/internal/model"
	"github.com/jwalitptl/petclinic-api/internal/repository"
	"github.com/jwalitptl/petclinic-api/internal/service/schedule"
	apperrors "github.com/jwalitptl/petclinic-api/pkg/errors"
	"github.com/jwalitptl/petclinic-api/pkg/messaging"
	"github.com/jwalitptl/petclinic-api/pkg/metrics"
)

type Service struct {
	bookings repository.BookingRepository
	records  repository.RecordRepository
	tx       repository.Tx
	broker   messaging.Broker
	emailSvc email.Service
	metrics  *metrics.Metrics
}

func NewService(
	bookings repository.BookingRepository,
	records repository.RecordRepository,
	tx repository.Tx,
	broker messaging.Broker,
	emailSvc email.Service,
	m *metrics.Metrics,
) *Service {
	return &Service{
		bookings: bookings,
		records:  records,
		tx:       tx,
		broker:   broker,
		emailSvc: emailSvc,
		metrics:  m,
	}
}

// CreateBooking derives the schedule fields from the request and persists
// the booking together with its paired, initially-empty medical record in
// one transaction. Both rows exist or neither does.
func (s *Service) CreateBooking(ctx context.Context, userID uuid.UUID, req *model.CreateBookingRequest) (*model.Booking, error) {
	if userID == uuid.Nil {
		return nil, apperrors.NewAuthRequired(nil)
	}

	if missing := missingFields(req); len(missing) > 0 {
		return nil, apperrors.NewValidation(missing...)
	}

	duration := schedule.ResolveDuration(req.Service, req.DurationOverride)
	endTime, err := schedule.ComputeEndTime(req.Time, duration)
	if err != nil {
		return nil, apperrors.NewValidation("time")
	}

	booking := &model.Booking{
		ID:               uuid.New(),
		UserID:           userID,
		PetName:          req.PetName,
		PetType:          req.PetType,
		OwnerName:        req.OwnerName,
		Email:            req.Email,
		Phone:            req.Phone,
		Date:             req.Date,
		Time:             req.Time,
		Service:          req.Service,
		Duration:         duration,
		EstimatedEndTime: endTime,
		Status:           model.BookingStatusPending,
		Notes:            req.Notes,
	}

	record := emptyRecordFor(booking)

	start := time.Now()
	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.bookings.CreateTx(ctx, tx, booking); err != nil {
			return err
		}
		return s.records.CreateTx(ctx, tx, record)
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.PairedWriteErrors.Inc()
		}
		return nil, apperrors.NewPersistence("booking creation", err)
	}

	if s.metrics != nil {
		s.metrics.BookingsCreated.Inc()
		s.metrics.BookingLatency.Observe(time.Since(start).Seconds())
	}

	s.notifyCreated(ctx, booking)

	return booking, nil
}

// emptyRecordFor builds the paired medical record: administrative fields
// copied from the booking, clinical fields left for staff to fill in.
func emptyRecordFor(booking *model.Booking) *model.MedicalRecord {
	return &model.MedicalRecord{
		ID:               uuid.New(),
		BookingID:        booking.ID,
		UserID:           booking.UserID,
		PetName:          booking.PetName,
		PetType:          booking.PetType,
		Service:          booking.Service,
		VisitDate:        booking.Date,
		VisitTime:        booking.Time,
		EstimatedEndTime: booking.EstimatedEndTime,
		Notes:            booking.Notes,
	}
}

func (s *Service) notifyCreated(ctx context.Context, booking *model.Booking) {
	if s.broker != nil {
		err := s.broker.Publish(ctx, messaging.ChannelBookingCreated, messaging.Message{
			Type:    messaging.ChannelBookingCreated,
			Payload: booking,
		})
		if err != nil {
			log.Warn().Err(err).Str("booking_id", booking.ID.String()).Msg("failed to publish booking event")
		}
	}

	if s.emailSvc != nil {
		if err := s.emailSvc.SendBookingConfirmation(ctx, booking); err != nil {
			log.Warn().Err(err).Str("booking_id", booking.ID.String()).Msg("failed to send confirmation email")
		}
	}
}

// ListOwnerBookings returns the caller's bookings, newest first.
func (s *Service) ListOwnerBookings(ctx context.Context, userID uuid.UUID) ([]*model.Booking, error) {
	if userID == uuid.Nil {
		return nil, apperrors.NewAuthRequired(nil)
	}

	bookings, err := s.bookings.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperrors.NewPersistence("booking list", err)
	}
	return bookings, nil
}

func missingFields(req *model.CreateBookingRequest) []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"service", req.Service},
		{"pet_name", req.PetName},
		{"pet_type", req.PetType},
		{"owner_name", req.OwnerName},
		{"email", req.Email},
		{"phone", req.Phone},
		{"date", req.Date},
		{"time", req.Time},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

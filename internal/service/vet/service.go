package vet

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/petclinic-api/internal/model"
	"github.com/jwalitptl/petclinic-api/internal/repository"
	apperrors "github.com/jwalitptl/petclinic-api/pkg/errors"
	"github.com/jwalitptl/petclinic-api/pkg/messaging"
	"github.com/jwalitptl/petclinic-api/pkg/metrics"
)

// Service drives the clinician side of a visit: reviewing the pending
// queue, pulling up the paired medical record, and closing a booking out
// with the clinical findings.
type Service struct {
	bookings repository.BookingRepository
	records  repository.RecordRepository
	tx       repository.Tx
	broker   messaging.Broker
	metrics  *metrics.Metrics
}

func NewService(
	bookings repository.BookingRepository,
	records repository.RecordRepository,
	tx repository.Tx,
	broker messaging.Broker,
	m *metrics.Metrics,
) *Service {
	return &Service{
		bookings: bookings,
		records:  records,
		tx:       tx,
		broker:   broker,
		metrics:  m,
	}
}

// ListPendingBookings returns the work queue in chronological order, the
// earliest visit first.
func (s *Service) ListPendingBookings(ctx context.Context) ([]*model.Booking, error) {
	bookings, err := s.bookings.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending bookings: %w", err)
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		if bookings[i].Date != bookings[j].Date {
			return bookings[i].Date < bookings[j].Date
		}
		return bookings[i].Time < bookings[j].Time
	})
	return bookings, nil
}

// BookingWithRecord resolves a booking together with its paired medical
// record, so the clinician sees both before writing anything.
func (s *Service) BookingWithRecord(ctx context.Context, bookingID uuid.UUID) (*model.Booking, *model.MedicalRecord, error) {
	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}

	record, err := s.resolveRecord(ctx, booking)
	if err != nil {
		return nil, nil, err
	}
	return booking, record, nil
}

// CompleteVisit writes the clinical findings into the booking's record and
// marks the booking completed in the same transaction.
func (s *Service) CompleteVisit(ctx context.Context, bookingID uuid.UUID, update *model.RecordUpdate) (*model.MedicalRecord, error) {
	if bookingID == uuid.Nil {
		return nil, apperrors.NewValidation("booking_id")
	}

	var missing []string
	if update.Diagnosis == "" {
		missing = append(missing, "diagnosis")
	}
	if update.Treatment == "" {
		missing = append(missing, "treatment")
	}
	if update.VetName == "" {
		missing = append(missing, "vet_name")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidation(missing...)
	}

	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	record, err := s.resolveRecord(ctx, booking)
	if err != nil {
		return nil, err
	}
	if record.ID == uuid.Nil {
		return nil, apperrors.NewRecordNotFound("medical record reference is empty")
	}

	err = s.tx.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.records.UpdateTx(ctx, tx, record.ID, update); err != nil {
			return err
		}
		return s.bookings.MarkCompletedTx(ctx, tx, booking.ID)
	})
	if err != nil {
		return nil, apperrors.NewPersistence("visit completion", err)
	}

	if s.metrics != nil {
		s.metrics.BookingsCompleted.Inc()
	}
	s.notifyCompleted(ctx, booking)

	record.Diagnosis = update.Diagnosis
	record.Treatment = update.Treatment
	record.Prescription = update.Prescription
	record.VetName = update.VetName
	now := time.Now()
	record.UpdatedAt = &now
	return record, nil
}

// resolveRecord prefers the stored booking reference and falls back to an
// exact schedule match for records created before the reference existed.
func (s *Service) resolveRecord(ctx context.Context, booking *model.Booking) (*model.MedicalRecord, error) {
	record, err := s.records.GetByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up record for booking: %w", err)
	}
	if record != nil {
		return record, nil
	}

	records, err := s.records.ListByOwner(ctx, booking.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	for _, candidate := range records {
		if candidate.PetName == booking.PetName &&
			candidate.VisitDate == booking.Date &&
			candidate.VisitTime == booking.Time {
			return candidate, nil
		}
	}
	return nil, apperrors.NewRecordNotFound("no medical record found for booking")
}

func (s *Service) notifyCompleted(ctx context.Context, booking *model.Booking) {
	if s.broker == nil {
		return
	}
	err := s.broker.Publish(ctx, messaging.ChannelBookingCompleted, messaging.Message{
		Type:    messaging.ChannelBookingCompleted,
		Payload: booking,
	})
	if err != nil {
		log.Warn().Err(err).Str("booking_id", booking.ID.String()).Msg("failed to publish completion event")
	}
}

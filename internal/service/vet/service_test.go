package vet

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/petclinic-api/internal/model"
	apperrors "github.com/jwalitptl/petclinic-api/pkg/errors"
)

func validUpdate() *model.RecordUpdate {
	return &model.RecordUpdate{
		Diagnosis:    "Otitis externa",
		Treatment:    "Ear cleaning, topical drops",
		Prescription: "Surolan 10ml",
		VetName:      "drh. Andini",
	}
}

func newTestService(bookings *stubBookingRepo, records *stubRecordRepo) *Service {
	return NewService(bookings, records, &stubTx{}, nil, nil)
}

func TestListPendingBookingsChronological(t *testing.T) {
	bookings := &stubBookingRepo{
		pending: []*model.Booking{
			{ID: uuid.New(), Date: "2025-06-02", Time: "09:00"},
			{ID: uuid.New(), Date: "2025-06-01", Time: "14:00"},
			{ID: uuid.New(), Date: "2025-06-01", Time: "08:00"},
		},
	}
	svc := newTestService(bookings, &stubRecordRepo{})

	got, err := svc.ListPendingBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "08:00", got[0].Time)
	assert.Equal(t, "14:00", got[1].Time)
	assert.Equal(t, "2025-06-02", got[2].Date)
}

func TestCompleteVisitUpdatesRecordAndBooking(t *testing.T) {
	booking := &model.Booking{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		PetName: "Bruno",
		Date:    "2025-06-01",
		Time:    "09:00",
	}
	record := &model.MedicalRecord{ID: uuid.New(), BookingID: booking.ID}

	bookings := &stubBookingRepo{get: booking}
	records := &stubRecordRepo{byBookingID: record}
	svc := newTestService(bookings, records)

	got, err := svc.CompleteVisit(context.Background(), booking.ID, validUpdate())
	require.NoError(t, err)

	assert.Equal(t, record.ID, records.updatedID)
	assert.Equal(t, booking.ID, bookings.completedID)
	assert.Equal(t, "Otitis externa", got.Diagnosis)
	assert.NotNil(t, got.UpdatedAt)
}

func TestCompleteVisitCollectsMissingFields(t *testing.T) {
	svc := newTestService(&stubBookingRepo{}, &stubRecordRepo{})

	_, err := svc.CompleteVisit(context.Background(), uuid.New(), &model.RecordUpdate{
		Prescription: "Surolan 10ml",
	})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.ElementsMatch(t, []string{"diagnosis", "treatment", "vet_name"}, appErr.Fields)
}

func TestCompleteVisitFallsBackToScheduleMatch(t *testing.T) {
	booking := &model.Booking{
		ID:      uuid.New(),
		UserID:  uuid.New(),
		PetName: "Bruno",
		Date:    "2025-06-01",
		Time:    "09:00",
	}
	legacy := &model.MedicalRecord{
		ID:        uuid.New(),
		PetName:   "Bruno",
		VisitDate: "2025-06-01",
		VisitTime: "09:00",
	}

	bookings := &stubBookingRepo{get: booking}
	records := &stubRecordRepo{byOwner: []*model.MedicalRecord{legacy}}
	svc := newTestService(bookings, records)

	_, err := svc.CompleteVisit(context.Background(), booking.ID, validUpdate())
	require.NoError(t, err)
	assert.Equal(t, legacy.ID, records.updatedID)
}

func TestCompleteVisitRecordMissing(t *testing.T) {
	booking := &model.Booking{ID: uuid.New(), UserID: uuid.New(), PetName: "Bruno"}
	bookings := &stubBookingRepo{get: booking}
	svc := newTestService(bookings, &stubRecordRepo{})

	_, err := svc.CompleteVisit(context.Background(), booking.ID, validUpdate())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrRecordNotFound))
}

func TestCompleteVisitEmptyRecordReference(t *testing.T) {
	booking := &model.Booking{ID: uuid.New(), UserID: uuid.New()}
	bookings := &stubBookingRepo{get: booking}
	records := &stubRecordRepo{byBookingID: &model.MedicalRecord{}}
	svc := newTestService(bookings, records)

	_, err := svc.CompleteVisit(context.Background(), booking.ID, validUpdate())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrRecordNotFound))
}

func TestCompleteVisitPersistenceFailure(t *testing.T) {
	booking := &model.Booking{ID: uuid.New(), UserID: uuid.New()}
	record := &model.MedicalRecord{ID: uuid.New(), BookingID: booking.ID}

	bookings := &stubBookingRepo{get: booking}
	records := &stubRecordRepo{byBookingID: record, updateErr: errors.New("write refused")}
	svc := newTestService(bookings, records)

	_, err := svc.CompleteVisit(context.Background(), booking.ID, validUpdate())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrPersistence))
	assert.Equal(t, uuid.Nil, bookings.completedID, "booking must not be completed when the record write fails")
}

// Stubs

type stubTx struct{}

func (s *stubTx) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return fn(nil)
}

type stubBookingRepo struct {
	pending     []*model.Booking
	get         *model.Booking
	completedID uuid.UUID
}

func (s *stubBookingRepo) Create(ctx context.Context, b *model.Booking) error { return nil }

func (s *stubBookingRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, b *model.Booking) error {
	return nil
}

func (s *stubBookingRepo) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	if s.get == nil || s.get.ID != id {
		return nil, apperrors.NewNotFound("booking", nil)
	}
	return s.get, nil
}

func (s *stubBookingRepo) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*model.Booking, error) {
	return nil, nil
}

func (s *stubBookingRepo) ListPending(ctx context.Context) ([]*model.Booking, error) {
	return s.pending, nil
}

func (s *stubBookingRepo) ListCompleted(ctx context.Context) ([]*model.Booking, error) {
	return nil, nil
}

func (s *stubBookingRepo) ListOrphaned(ctx context.Context, limit int) ([]*model.Booking, error) {
	return nil, nil
}

func (s *stubBookingRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	s.completedID = id
	return nil
}

func (s *stubBookingRepo) MarkCompletedTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	s.completedID = id
	return nil
}

type stubRecordRepo struct {
	byBookingID *model.MedicalRecord
	byOwner     []*model.MedicalRecord
	updatedID   uuid.UUID
	updateErr   error
}

func (s *stubRecordRepo) Create(ctx context.Context, r *model.MedicalRecord) error { return nil }

func (s *stubRecordRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, r *model.MedicalRecord) error {
	return nil
}

func (s *stubRecordRepo) Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	return nil, errors.New("not implemented")
}

func (s *stubRecordRepo) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*model.MedicalRecord, error) {
	return s.byBookingID, nil
}

func (s *stubRecordRepo) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*model.MedicalRecord, error) {
	return s.byOwner, nil
}

func (s *stubRecordRepo) ListByOwnerAndPet(ctx context.Context, userID uuid.UUID, petName string) ([]*model.MedicalRecord, error) {
	return nil, nil
}

func (s *stubRecordRepo) Update(ctx context.Context, id uuid.UUID, update *model.RecordUpdate) error {
	return s.UpdateTx(ctx, nil, id, update)
}

func (s *stubRecordRepo) UpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, update *model.RecordUpdate) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.updatedID = id
	return nil
}

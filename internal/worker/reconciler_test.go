package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/petclinic-api/internal/model"
)

func TestSweepRepairsOrphans(t *testing.T) {
	orphan := &model.Booking{
		ID:               uuid.New(),
		UserID:           uuid.New(),
		PetName:          "Bruno",
		PetType:          "Dog",
		Service:          "Vaccination",
		Date:             "2025-06-01",
		Time:             "09:00",
		EstimatedEndTime: "09:30",
	}
	bookings := &stubBookingRepo{orphans: []*model.Booking{orphan}}
	records := &stubRecordRepo{}

	r := NewReconciler(bookings, records, 50, time.Minute, nil)
	require.NoError(t, r.Sweep(context.Background()))

	require.Len(t, records.created, 1)
	record := records.created[0]
	assert.Equal(t, orphan.ID, record.BookingID)
	assert.Equal(t, orphan.UserID, record.UserID)
	assert.Equal(t, "09:30", record.EstimatedEndTime)
	assert.Empty(t, record.Diagnosis)
}

func TestSweepNoOrphans(t *testing.T) {
	records := &stubRecordRepo{}
	r := NewReconciler(&stubBookingRepo{}, records, 50, time.Minute, nil)

	require.NoError(t, r.Sweep(context.Background()))
	assert.Empty(t, records.created)
}

func TestSweepContinuesPastFailures(t *testing.T) {
	bookings := &stubBookingRepo{orphans: []*model.Booking{
		{ID: uuid.New(), PetName: "Bruno"},
		{ID: uuid.New(), PetName: "Milo"},
	}}
	records := &stubRecordRepo{failFirst: true}

	r := NewReconciler(bookings, records, 50, time.Minute, nil)
	err := r.Sweep(context.Background())

	require.Error(t, err)
	require.Len(t, records.created, 1)
	assert.Equal(t, "Milo", records.created[0].PetName)
}

// Stubs

type stubBookingRepo struct {
	orphans []*model.Booking
}

func (s *stubBookingRepo) Create(ctx context.Context, b *model.Booking) error { return nil }

func (s *stubBookingRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, b *model.Booking) error {
	return nil
}

func (s *stubBookingRepo) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return nil, nil
}

func (s *stubBookingRepo) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*model.Booking, error) {
	return nil, nil
}

func (s *stubBookingRepo) ListPending(ctx context.Context) ([]*model.Booking, error) {
	return nil, nil
}

func (s *stubBookingRepo) ListCompleted(ctx context.Context) ([]*model.Booking, error) {
	return nil, nil
}

func (s *stubBookingRepo) ListOrphaned(ctx context.Context, limit int) ([]*model.Booking, error) {
	if len(s.orphans) > limit {
		return s.orphans[:limit], nil
	}
	return s.orphans, nil
}

func (s *stubBookingRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubBookingRepo) MarkCompletedTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	return nil
}

type stubRecordRepo struct {
	created   []*model.MedicalRecord
	failFirst bool
	calls     int
}

func (s *stubRecordRepo) Create(ctx context.Context, r *model.MedicalRecord) error {
	s.calls++
	if s.failFirst && s.calls == 1 {
		return errors.New("write refused")
	}
	s.created = append(s.created, r)
	return nil
}

func (s *stubRecordRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, r *model.MedicalRecord) error {
	return s.Create(ctx, r)
}

func (s *stubRecordRepo) Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	return nil, nil
}

func (s *stubRecordRepo) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*model.MedicalRecord, error) {
	return nil, nil
}

func (s *stubRecordRepo) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*model.MedicalRecord, error) {
	return nil, nil
}

func (s *stubRecordRepo) ListByOwnerAndPet(ctx context.Context, userID uuid.UUID, petName string) ([]*model.MedicalRecord, error) {
	return nil, nil
}

func (s *stubRecordRepo) Update(ctx context.Context, id uuid.UUID, update *model.RecordUpdate) error {
	return nil
}

func (s *stubRecordRepo) UpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, update *model.RecordUpdate) error {
	return nil
}

package booking

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

func validRequest() *model.CreateBookingRequest {
	return &model.CreateBookingRequest{
		PetName:   "Bruno",
		PetType:   "Dog",
		OwnerName: "Sari Putri",
		Email:     "sari@example.com",
		Phone:     "+62-811-000-111",
		Date:      "2025-06-01",
		Time:      "09:00",
		Service:   "Vaccination",
		Notes:     "first visit",
	}
}

func newTestService(bookings *stubBookingRepo, records *stubRecordRepo, tx *stubTx) *Service {
	return NewService(bookings, records, tx, nil, nil, nil)
}

func TestCreateBookingDerivesScheduleFields(t *testing.T) {
	bookings := &stubBookingRepo{}
	records := &stubRecordRepo{}
	svc := newTestService(bookings, records, &stubTx{})

	booking, err := svc.CreateBooking(context.Background(), uuid.New(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, 30, booking.Duration)
	assert.Equal(t, "09:30", booking.EstimatedEndTime)
	assert.Equal(t, model.BookingStatusPending, booking.Status)
}

func TestCreateBookingPairsEmptyRecord(t *testing.T) {
	bookings := &stubBookingRepo{}
	records := &stubRecordRepo{}
	svc := newTestService(bookings, records, &stubTx{})

	userID := uuid.New()
	booking, err := svc.CreateBooking(context.Background(), userID, validRequest())
	require.NoError(t, err)

	require.NotNil(t, records.created)
	record := records.created
	assert.Equal(t, booking.ID, record.BookingID)
	assert.Equal(t, userID, record.UserID)
	assert.Equal(t, booking.PetName, record.PetName)
	assert.Equal(t, booking.Date, record.VisitDate)
	assert.Equal(t, booking.Time, record.VisitTime)
	assert.Equal(t, booking.EstimatedEndTime, record.EstimatedEndTime)
	assert.Empty(t, record.Diagnosis)
	assert.Empty(t, record.Treatment)
	assert.Empty(t, record.VetName)
}

func TestCreateBookingOverrideDurationWins(t *testing.T) {
	svc := newTestService(&stubBookingRepo{}, &stubRecordRepo{}, &stubTx{})

	req := validRequest()
	req.Service = "Surgery"
	req.DurationOverride = 15

	booking, err := svc.CreateBooking(context.Background(), uuid.New(), req)
	require.NoError(t, err)

	assert.Equal(t, 15, booking.Duration)
	assert.Equal(t, "09:15", booking.EstimatedEndTime)
}

func TestCreateBookingUnknownServiceDefaults(t *testing.T) {
	svc := newTestService(&stubBookingRepo{}, &stubRecordRepo{}, &stubTx{})

	req := validRequest()
	req.Service = "Aromatherapy"

	booking, err := svc.CreateBooking(context.Background(), uuid.New(), req)
	require.NoError(t, err)
	assert.Equal(t, 30, booking.Duration)
}

func TestCreateBookingMissingFieldsListed(t *testing.T) {
	svc := newTestService(&stubBookingRepo{}, &stubRecordRepo{}, &stubTx{})

	req := validRequest()
	req.PetName = ""
	req.Phone = ""

	_, err := svc.CreateBooking(context.Background(), uuid.New(), req)
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrValidation, appErr.Code)
	assert.ElementsMatch(t, []string{"pet_name", "phone"}, appErr.Fields)
}

func TestCreateBookingRequiresUser(t *testing.T) {
	svc := newTestService(&stubBookingRepo{}, &stubRecordRepo{}, &stubTx{})

	_, err := svc.CreateBooking(context.Background(), uuid.Nil, validRequest())
	assert.True(t, apperrors.IsCode(err, apperrors.ErrAuthRequired))
}

func TestCreateBookingRollsBackOnRecordFailure(t *testing.T) {
	bookings := &stubBookingRepo{}
	records := &stubRecordRepo{createErr: errors.New("write refused")}
	tx := &stubTx{}
	svc := newTestService(bookings, records, tx)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), validRequest())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrPersistence))
	assert.True(t, tx.rolledBack, "transaction should have been aborted")
}

func TestCreateBookingPersistenceErrorWrapped(t *testing.T) {
	cause := errors.New("connection reset")
	bookings := &stubBookingRepo{createErr: cause}
	svc := newTestService(bookings, &stubRecordRepo{}, &stubTx{})

	_, err := svc.CreateBooking(context.Background(), uuid.New(), validRequest())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrPersistence))
	assert.ErrorIs(t, err, cause)
}

func TestListOwnerBookings(t *testing.T) {
	userID := uuid.New()
	bookings := &stubBookingRepo{
		byOwner: []*model.Booking{{ID: uuid.New(), UserID: userID}},
	}
	svc := newTestService(bookings, &stubRecordRepo{}, &stubTx{})

	got, err := svc.ListOwnerBookings(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.ListOwnerBookings(context.Background(), uuid.Nil)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrAuthRequired))
}

// Stubs

type stubTx struct {
	rolledBack bool
}

func (s *stubTx) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if err := fn(nil); err != nil {
		s.rolledBack = true
		return err
	}
	return nil
}

type stubBookingRepo struct {
	created   *model.Booking
	createErr error
	byOwner   []*model.Booking
}

func (s *stubBookingRepo) Create(ctx context.Context, b *model.Booking) error {
	return s.CreateTx(ctx, nil, b)
}

func (s *stubBookingRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, b *model.Booking) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = b
	return nil
}

func (s *stubBookingRepo) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	return nil, errors.New("not implemented")
}

func (s *stubBookingRepo) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*model.Booking, error) {
	return s.byOwner, nil
}

func (s *stubBookingRepo) ListPending(ctx context.Context) ([]*model.Booking, error) {
	return nil, nil
}

func (s *stubBookingRepo) ListCompleted(ctx context.Context) ([]*model.Booking, error) {
	return nil, nil
}

func (s *stubBookingRepo) ListOrphaned(ctx context.Context, limit int) ([]*model.Booking, error) {
	return nil, nil
}

func (s *stubBookingRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	return nil
}

func (s *stubBookingRepo) MarkCompletedTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	return nil
}

type stubRecordRepo struct {
	created   *model.MedicalRecord
	createErr error
}

func (s *stubRecordRepo) Create(ctx context.Context, r *model.MedicalRecord) error {
	return s.CreateTx(ctx, nil, r)
}

func (s *stubRecordRepo) CreateTx(ctx context.Context, tx *sqlx.Tx, r *model.MedicalRecord) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = r
	return nil
}

func (s *stubRecordRepo) Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	return nil, errors.New("not implemented")
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

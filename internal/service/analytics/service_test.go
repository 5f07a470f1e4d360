package analytics

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/petclinic-api/internal/model"
)

func completedBooking(service, petType string) *model.Booking {
	return &model.Booking{
		ID:      uuid.New(),
		Service: service,
		PetType: petType,
		Status:  model.BookingStatusCompleted,
	}
}

func TestSnapshotBreakdown(t *testing.T) {
	repo := &stubBookingRepo{
		completed: []*model.Booking{
			completedBooking("Vaccination", "Dog"),
			completedBooking("Vaccination", "Cat"),
			completedBooking("Grooming", "Dog"),
		},
	}
	svc := NewService(repo)

	snapshot, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, snapshot.TotalCompletedBookings)

	require.Len(t, snapshot.ServiceBreakdown, 2)
	assert.Equal(t, "Vaccination", snapshot.ServiceBreakdown[0].Service)
	assert.Equal(t, 2, snapshot.ServiceBreakdown[0].Count)
	assert.InDelta(t, 66.67, snapshot.ServiceBreakdown[0].Percentage, 0.01)
	assert.Equal(t, "Grooming", snapshot.ServiceBreakdown[1].Service)
	assert.InDelta(t, 33.33, snapshot.ServiceBreakdown[1].Percentage, 0.01)

	require.NotNil(t, snapshot.MostPopularService)
	assert.Equal(t, "Vaccination", snapshot.MostPopularService.Service)

	require.NotNil(t, snapshot.MostCommonPetType)
	assert.Equal(t, "Dog", snapshot.MostCommonPetType.PetType)
	assert.InDelta(t, 66.67, snapshot.MostCommonPetType.Percentage, 0.01)
}

func TestSnapshotEmpty(t *testing.T) {
	svc := NewService(&stubBookingRepo{})

	snapshot, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Zero(t, snapshot.TotalCompletedBookings)
	assert.Nil(t, snapshot.MostPopularService)
	assert.Nil(t, snapshot.MostCommonPetType)
	assert.Empty(t, snapshot.ServiceBreakdown)
	assert.Empty(t, snapshot.PetTypeBreakdown)
}

func TestSnapshotTiesBreakAlphabetically(t *testing.T) {
	repo := &stubBookingRepo{
		completed: []*model.Booking{
			completedBooking("Grooming", "Cat"),
			completedBooking("Consultation", "Dog"),
		},
	}
	svc := NewService(repo)

	snapshot, err := svc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Consultation", snapshot.ServiceBreakdown[0].Service)
	assert.Equal(t, "Cat", snapshot.PetTypeBreakdown[0].PetType)
	assert.InDelta(t, 50.0, snapshot.ServiceBreakdown[0].Percentage, 0.001)
}

// Stub

type stubBookingRepo struct {
	completed []*model.Booking
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
	return s.completed, nil
}

func (s *stubBookingRepo) ListOrphaned(ctx context.Context, limit int) ([]*model.Booking, error) {
	return nil, nil
}

func (s *stubBookingRepo) MarkCompleted(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubBookingRepo) MarkCompletedTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	return nil
}

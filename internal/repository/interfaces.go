package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/petclinic-api/internal/model"
)

// All repository interfaces in one file
type (
	// BookingRepository handles booking rows. Bookings are created pending,
	// flipped to completed by staff and never deleted.
	BookingRepository interface {
		Create(ctx context.Context, booking *model.Booking) error
		CreateTx(ctx context.Context, tx *sqlx.Tx, booking *model.Booking) error
		Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
		ListByOwner(ctx context.Context, userID uuid.UUID) ([]*model.Booking, error)
		ListPending(ctx context.Context) ([]*model.Booking, error)
		ListCompleted(ctx context.Context) ([]*model.Booking, error)
		ListOrphaned(ctx context.Context, limit int) ([]*model.Booking, error)
		MarkCompleted(ctx context.Context, id uuid.UUID) error
		MarkCompletedTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error
	}

	// RecordRepository handles medical record rows paired 1:1 with bookings.
	RecordRepository interface {
		Create(ctx context.Context, record *model.MedicalRecord) error
		CreateTx(ctx context.Context, tx *sqlx.Tx, record *model.MedicalRecord) error
		Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error)
		GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*model.MedicalRecord, error)
		ListByOwner(ctx context.Context, userID uuid.UUID) ([]*model.MedicalRecord, error)
		ListByOwnerAndPet(ctx context.Context, userID uuid.UUID, petName string) ([]*model.MedicalRecord, error)
		Update(ctx context.Context, id uuid.UUID, update *model.RecordUpdate) error
		UpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, update *model.RecordUpdate) error
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
	}

	VetRepository interface {
		Create(ctx context.Context, vet *model.Vet) error
		Get(ctx context.Context, id uuid.UUID) (*model.Vet, error)
		GetByEmail(ctx context.Context, email string) (*model.Vet, error)
	}

	// Tx runs fn inside one database transaction. Both paired-write
	// sequences (booking+record creation, record-update+completion) go
	// through this so a partial failure rolls back cleanly.
	Tx interface {
		WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error
	}
)

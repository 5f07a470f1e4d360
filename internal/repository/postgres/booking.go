package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/petclinic-api/internal/model"
	"github.com/jwalitptl/petclinic-api/internal/repository"
)

type bookingRepository struct {
	BaseRepository
}

func NewBookingRepository(db *sqlx.DB) repository.BookingRepository {
	return &bookingRepository{BaseRepository: NewBaseRepository(db)}
}

const bookingColumns = `
	id, user_id, pet_name, pet_type, owner_name, email, phone,
	date, time, service, duration, estimated_end_time, status, notes,
	created_at, updated_at
`

const insertBookingQuery = `
	INSERT INTO bookings (
		id, user_id, pet_name, pet_type, owner_name, email, phone,
		date, time, service, duration, estimated_end_time, status, notes,
		created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
`

func (r *bookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	stampBooking(booking)
	_, err := r.db.ExecContext(ctx, insertBookingQuery, bookingArgs(booking)...)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, booking *model.Booking) error {
	stampBooking(booking)
	_, err := tx.ExecContext(ctx, insertBookingQuery, bookingArgs(booking)...)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func stampBooking(booking *model.Booking) {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
}

func bookingArgs(b *model.Booking) []interface{} {
	return []interface{}{
		b.ID, b.UserID, b.PetName, b.PetType, b.OwnerName, b.Email, b.Phone,
		b.Date, b.Time, b.Service, b.Duration, b.EstimatedEndTime, b.Status, b.Notes,
		b.CreatedAt, b.UpdatedAt,
	}
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var booking model.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *bookingRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY created_at DESC`

	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// ListPending returns pending bookings unordered; chronological sorting by
// date and time happens client-side in the vet service.
func (r *bookingRepository) ListPending(ctx context.Context) ([]*model.Booking, error) {
	return r.listByStatus(ctx, model.BookingStatusPending)
}

func (r *bookingRepository) ListCompleted(ctx context.Context) ([]*model.Booking, error) {
	return r.listByStatus(ctx, model.BookingStatusCompleted)
}

func (r *bookingRepository) listByStatus(ctx context.Context, status model.BookingStatus) ([]*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status = $1`

	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, status); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// ListOrphaned returns bookings that have no paired medical record. The
// reconciler repairs these.
func (r *bookingRepository) ListOrphaned(ctx context.Context, limit int) ([]*model.Booking, error) {
	query := `
		SELECT b.id, b.user_id, b.pet_name, b.pet_type, b.owner_name, b.email, b.phone,
			   b.date, b.time, b.service, b.duration, b.estimated_end_time, b.status, b.notes,
			   b.created_at, b.updated_at
		FROM bookings b
		LEFT JOIN medical_records m ON m.booking_id = b.id
		WHERE m.id IS NULL
		ORDER BY b.created_at ASC
		LIMIT $1
	`

	var bookings []*model.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list orphaned bookings: %w", err)
	}
	return bookings, nil
}

const markCompletedQuery = `
	UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3
`

// MarkCompleted flips the booking to completed. Re-running it rewrites the
// same value, so callers may treat it as idempotent.
func (r *bookingRepository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, markCompletedQuery, model.BookingStatusCompleted, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to complete booking: %w", err)
	}
	return checkBookingFound(result)
}

func (r *bookingRepository) MarkCompletedTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	result, err := tx.ExecContext(ctx, markCompletedQuery, model.BookingStatusCompleted, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to complete booking: %w", err)
	}
	return checkBookingFound(result)
}

func checkBookingFound(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("booking not found")
	}
	return nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/petclinic-api/internal/model"
	"github.com/jwalitptl/petclinic-api/internal/repository"
)

type recordRepository struct {
	BaseRepository
}

func NewRecordRepository(db *sqlx.DB) repository.RecordRepository {
	return &recordRepository{BaseRepository: NewBaseRepository(db)}
}

const recordColumns = `
	id, booking_id, user_id, pet_name, pet_type, service,
	visit_date, visit_time, estimated_end_time,
	diagnosis, treatment, prescription, vet_name, notes,
	created_at, updated_at
`

const insertRecordQuery = `
	INSERT INTO medical_records (
		id, booking_id, user_id, pet_name, pet_type, service,
		visit_date, visit_time, estimated_end_time,
		diagnosis, treatment, prescription, vet_name, notes,
		created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
`

func (r *recordRepository) Create(ctx context.Context, record *model.MedicalRecord) error {
	stampRecord(record)
	_, err := r.db.ExecContext(ctx, insertRecordQuery, recordArgs(record)...)
	if err != nil {
		return fmt.Errorf("failed to create medical record: %w", err)
	}
	return nil
}

func (r *recordRepository) CreateTx(ctx context.Context, tx *sqlx.Tx, record *model.MedicalRecord) error {
	stampRecord(record)
	_, err := tx.ExecContext(ctx, insertRecordQuery, recordArgs(record)...)
	if err != nil {
		return fmt.Errorf("failed to create medical record: %w", err)
	}
	return nil
}

func stampRecord(record *model.MedicalRecord) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.CreatedAt = time.Now()
}

func recordArgs(m *model.MedicalRecord) []interface{} {
	return []interface{}{
		m.ID, m.BookingID, m.UserID, m.PetName, m.PetType, m.Service,
		m.VisitDate, m.VisitTime, m.EstimatedEndTime,
		m.Diagnosis, m.Treatment, m.Prescription, m.VetName, m.Notes,
		m.CreatedAt,
	}
}

func (r *recordRepository) Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM medical_records WHERE id = $1`

	var record model.MedicalRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		return nil, fmt.Errorf("failed to get medical record: %w", err)
	}
	return &record, nil
}

// GetByBookingID resolves the paired record through the stored booking
// reference. Returns nil without error when no pairing exists.
func (r *recordRepository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) (*model.MedicalRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM medical_records WHERE booking_id = $1`

	var record model.MedicalRecord
	err := r.db.GetContext(ctx, &record, query, bookingID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medical record by booking: %w", err)
	}
	return &record, nil
}

// ListByOwner returns all records for a user unordered; the record service
// sorts by visit date client-side, matching the behavior of the store this
// replaced, which could not order on this filter.
func (r *recordRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*model.MedicalRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM medical_records WHERE user_id = $1`

	var records []*model.MedicalRecord
	if err := r.db.SelectContext(ctx, &records, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	return records, nil
}

func (r *recordRepository) ListByOwnerAndPet(ctx context.Context, userID uuid.UUID, petName string) ([]*model.MedicalRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM medical_records WHERE user_id = $1 AND pet_name = $2`

	var records []*model.MedicalRecord
	if err := r.db.SelectContext(ctx, &records, query, userID, petName); err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	return records, nil
}

const updateRecordQuery = `
	UPDATE medical_records
	SET diagnosis = $1, treatment = $2, prescription = $3, vet_name = $4, updated_at = $5
	WHERE id = $6
`

// Update writes only the clinical fields and stamps updated_at; everything
// else on the row is left untouched.
func (r *recordRepository) Update(ctx context.Context, id uuid.UUID, update *model.RecordUpdate) error {
	result, err := r.db.ExecContext(ctx, updateRecordQuery,
		update.Diagnosis, update.Treatment, update.Prescription, update.VetName, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update medical record: %w", err)
	}
	return checkRecordFound(result)
}

func (r *recordRepository) UpdateTx(ctx context.Context, tx *sqlx.Tx, id uuid.UUID, update *model.RecordUpdate) error {
	result, err := tx.ExecContext(ctx, updateRecordQuery,
		update.Diagnosis, update.Treatment, update.Prescription, update.VetName, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update medical record: %w", err)
	}
	return checkRecordFound(result)
}

func checkRecordFound(result sql.Result) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("medical record not found")
	}
	return nil
}

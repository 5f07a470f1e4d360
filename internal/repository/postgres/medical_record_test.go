package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/petclinic-api/internal/model"
)

func recordRows(records ...*model.MedicalRecord) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "booking_id", "user_id", "pet_name", "pet_type", "service",
		"visit_date", "visit_time", "estimated_end_time",
		"diagnosis", "treatment", "prescription", "vet_name", "notes",
		"created_at", "updated_at",
	})
	for _, m := range records {
		rows.AddRow(
			m.ID, m.BookingID, m.UserID, m.PetName, m.PetType, m.Service,
			m.VisitDate, m.VisitTime, m.EstimatedEndTime,
			m.Diagnosis, m.Treatment, m.Prescription, m.VetName, m.Notes,
			m.CreatedAt, m.UpdatedAt,
		)
	}
	return rows
}

func sampleRecord() *model.MedicalRecord {
	return &model.MedicalRecord{
		ID:               uuid.New(),
		BookingID:        uuid.New(),
		UserID:           uuid.New(),
		PetName:          "Bruno",
		PetType:          "Dog",
		Service:          "Vaccination",
		VisitDate:        "2025-06-01",
		VisitTime:        "09:00",
		EstimatedEndTime: "09:30",
		CreatedAt:        time.Now(),
	}
}

func TestRecordCreateStampsID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecordRepository(db)

	mock.ExpectExec("INSERT INTO medical_records").
		WillReturnResult(sqlmock.NewResult(0, 1))

	record := sampleRecord()
	record.ID = uuid.Nil

	require.NoError(t, repo.Create(context.Background(), record))
	assert.NotEqual(t, uuid.Nil, record.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordGetByBookingID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecordRepository(db)

	want := sampleRecord()
	mock.ExpectQuery("SELECT (.+) FROM medical_records WHERE booking_id").
		WithArgs(want.BookingID).
		WillReturnRows(recordRows(want))

	got, err := repo.GetByBookingID(context.Background(), want.BookingID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.ID, got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordGetByBookingIDMissingIsNil(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecordRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM medical_records WHERE booking_id").
		WillReturnRows(recordRows())

	got, err := repo.GetByBookingID(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordListByOwnerAndPet(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecordRepository(db)

	want := sampleRecord()
	mock.ExpectQuery("SELECT (.+) FROM medical_records WHERE user_id = (.+) AND pet_name").
		WithArgs(want.UserID, "Bruno").
		WillReturnRows(recordRows(want))

	got, err := repo.ListByOwnerAndPet(context.Background(), want.UserID, "Bruno")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordUpdateWritesClinicalFieldsOnly(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecordRepository(db)

	id := uuid.New()
	update := &model.RecordUpdate{
		Diagnosis:    "Otitis externa",
		Treatment:    "Ear cleaning",
		Prescription: "Surolan 10ml",
		VetName:      "drh. Andini",
	}

	mock.ExpectExec("UPDATE medical_records").
		WithArgs(update.Diagnosis, update.Treatment, update.Prescription, update.VetName, sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), id, update))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordUpdateNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewRecordRepository(db)

	mock.ExpectExec("UPDATE medical_records").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), uuid.New(), &model.RecordUpdate{})
	assert.EqualError(t, err, "medical record not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

package record

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/petclinic-api/internal/model"
	"github.com/jwalitptl/petclinic-api/internal/repository"
	apperrors "github.com/jwalitptl/petclinic-api/pkg/errors"
)

// Service exposes the owner-facing read side of medical records.
type Service struct {
	records repository.RecordRepository
	now     func() time.Time
}

func NewService(records repository.RecordRepository) *Service {
	return &Service{
		records: records,
		now:     time.Now,
	}
}

// ListOwnerRecords returns every record belonging to the owner, most
// recent visit first.
func (s *Service) ListOwnerRecords(ctx context.Context, userID uuid.UUID) ([]*model.MedicalRecord, error) {
	if userID == uuid.Nil {
		return nil, apperrors.NewAuthRequired(nil)
	}

	records, err := s.records.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	sortByVisitDesc(records)
	return records, nil
}

// ListPetHistory returns the visit history for a single pet, most recent
// visit first.
func (s *Service) ListPetHistory(ctx context.Context, userID uuid.UUID, petName string) ([]*model.MedicalRecord, error) {
	if userID == uuid.Nil {
		return nil, apperrors.NewAuthRequired(nil)
	}
	if petName == "" {
		return nil, apperrors.NewValidation("pet_name")
	}

	records, err := s.records.ListByOwnerAndPet(ctx, userID, petName)
	if err != nil {
		return nil, fmt.Errorf("failed to list pet history: %w", err)
	}

	sortByVisitDesc(records)
	return records, nil
}

// ListCompletedForOwner returns the owner's records whose visit window has
// already ended. Records with an unparseable schedule are treated as still
// open and skipped.
func (s *Service) ListCompletedForOwner(ctx context.Context, userID uuid.UUID) ([]*model.MedicalRecord, error) {
	records, err := s.ListOwnerRecords(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	completed := make([]*model.MedicalRecord, 0, len(records))
	for _, record := range records {
		end, err := visitEnd(record)
		if err != nil {
			continue
		}
		if end.Before(now) {
			completed = append(completed, record)
		}
	}
	return completed, nil
}

// GetRecord fetches one record and verifies it belongs to the caller.
func (s *Service) GetRecord(ctx context.Context, userID, recordID uuid.UUID) (*model.MedicalRecord, error) {
	if userID == uuid.Nil {
		return nil, apperrors.NewAuthRequired(nil)
	}

	record, err := s.records.Get(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if record.UserID != userID {
		return nil, apperrors.NewRecordNotFound("medical record not found")
	}
	return record, nil
}

// FindRecordForBooking locates the record paired with a booking by scanning
// the owner's records for an exact schedule match. It is the fallback used
// when a record predates the stored booking reference.
func (s *Service) FindRecordForBooking(ctx context.Context, booking *model.Booking) (*model.MedicalRecord, error) {
	records, err := s.records.ListByOwner(ctx, booking.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}

	for _, record := range records {
		if record.PetName == booking.PetName &&
			record.VisitDate == booking.Date &&
			record.VisitTime == booking.Time {
			return record, nil
		}
	}
	return nil, apperrors.NewRecordNotFound("no medical record matches the booking schedule")
}

func sortByVisitDesc(records []*model.MedicalRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].VisitDate != records[j].VisitDate {
			return records[i].VisitDate > records[j].VisitDate
		}
		return records[i].VisitTime > records[j].VisitTime
	})
}

func visitEnd(record *model.MedicalRecord) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", record.VisitDate+" "+record.EstimatedEndTime, time.Local)
}

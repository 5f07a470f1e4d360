package model

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is the clinical outcome paired 1:1 with a booking. It is
// created empty at booking time and filled in exactly once when staff
// complete the visit. BookingID is the stored join back to the originating
// booking; the (user, pet, date, time) tuple is kept for lookups against
// rows written before the booking_id column existed.
type MedicalRecord struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	BookingID        uuid.UUID  `db:"booking_id" json:"booking_id"`
	UserID           uuid.UUID  `db:"user_id" json:"user_id"`
	PetName          string     `db:"pet_name" json:"pet_name"`
	PetType          string     `db:"pet_type" json:"pet_type"`
	Service          string     `db:"service" json:"service"`
	VisitDate        string     `db:"visit_date" json:"visit_date"`
	VisitTime        string     `db:"visit_time" json:"visit_time"`
	EstimatedEndTime string     `db:"estimated_end_time" json:"estimated_end_time"`
	Diagnosis        string     `db:"diagnosis" json:"diagnosis"`
	Treatment        string     `db:"treatment" json:"treatment"`
	Prescription     string     `db:"prescription" json:"prescription"`
	VetName          string     `db:"vet_name" json:"vet_name"`
	Notes            string     `db:"notes" json:"notes,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// RecordUpdate holds the clinical fields staff submit on completion.
// Prescription is optional; the rest are required non-empty.
type RecordUpdate struct {
	Diagnosis    string `json:"diagnosis" validate:"required"`
	Treatment    string `json:"treatment" validate:"required"`
	Prescription string `json:"prescription"`
	VetName      string `json:"vet_name" validate:"required"`
}

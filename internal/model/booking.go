package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking represents one requested clinic visit. Date and Time are naive
// wall-clock strings ("2006-01-02" and "HH:MM"); EstimatedEndTime is derived
// once at creation and never recomputed afterwards.
type Booking struct {
	ID               uuid.UUID     `db:"id" json:"id"`
	UserID           uuid.UUID     `db:"user_id" json:"user_id"`
	PetName          string        `db:"pet_name" json:"pet_name"`
	PetType          string        `db:"pet_type" json:"pet_type"`
	OwnerName        string        `db:"owner_name" json:"owner_name"`
	Email            string        `db:"email" json:"email"`
	Phone            string        `db:"phone" json:"phone"`
	Date             string        `db:"date" json:"date"`
	Time             string        `db:"time" json:"time"`
	Service          string        `db:"service" json:"service"`
	Duration         int           `db:"duration" json:"duration"`
	EstimatedEndTime string        `db:"estimated_end_time" json:"estimated_end_time"`
	Status           BookingStatus `db:"status" json:"status"`
	Notes            string        `db:"notes" json:"notes,omitempty"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updated_at"`
}

// CreateBookingRequest carries the customer-submitted booking form. Field
// presence is checked by the booking service so that a single error can name
// every missing field at once.
type CreateBookingRequest struct {
	PetName   string `json:"pet_name" validate:"required"`
	PetType   string `json:"pet_type" validate:"required"`
	OwnerName string `json:"owner_name" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	Date      string `json:"date" validate:"required"`
	Time      string `json:"time" validate:"required"`
	Service   string `json:"service" validate:"required"`
	Notes     string `json:"notes" validate:"max=1000"`
	// DurationOverride, when positive, takes precedence over the
	// service duration table.
	DurationOverride int `json:"duration_override,omitempty"`
}

package model

// Vet is a staff (veterinarian) profile. Vets authenticate through the same
// mechanism as owners but live in their own realm and table.
type Vet struct {
	Base
	Name           string `db:"name" json:"name"`
	Email          string `db:"email" json:"email"`
	Phone          string `db:"phone" json:"phone,omitempty"`
	Specialization string `db:"specialization" json:"specialization,omitempty"`
	Clinic         string `db:"clinic" json:"clinic,omitempty"`
	PasswordHash   string `db:"password_hash" json:"-"`
}

type RegisterVetRequest struct {
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone"`
	Specialization string `json:"specialization"`
	Clinic         string `json:"clinic"`
	Password       string `json:"password" validate:"required,min=8"`
}

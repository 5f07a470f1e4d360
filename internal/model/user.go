package model

// User is a customer (pet owner) profile. Authentication state lives in the
// password hash and the issued tokens; the rest is display data.
type User struct {
	Base
	Name         string `db:"name" json:"name"`
	Email        string `db:"email" json:"email"`
	Phone        string `db:"phone" json:"phone,omitempty"`
	PasswordHash string `db:"password_hash" json:"-"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

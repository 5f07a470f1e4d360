package model

import "github.com/google/uuid"

// Realm distinguishes the two identity realms sharing one auth mechanism.
type Realm string

const (
	RealmOwner Realm = "owner"
	RealmVet   Realm = "vet"
)

type TokenClaims struct {
	UserID uuid.UUID
	Email  string
	Realm  Realm
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jwalitptl/petclinic-api/internal/model"
)

type JWTService interface {
	GenerateAccessToken(userID uuid.UUID, email string, realm model.Realm) (string, error)
	GenerateRefreshToken(userID uuid.UUID, email string, realm model.Realm) (string, error)
	ValidateToken(token string) (*model.TokenClaims, error)
	ValidateRefreshToken(token string) (*model.TokenClaims, error)
}

type Config struct {
	Secret        string
	RefreshSecret string
	Expiry        time.Duration
	RefreshExpiry time.Duration
}

type jwtService struct {
	cfg Config
}

func NewJWTService(cfg Config) JWTService {
	return &jwtService{cfg: cfg}
}

func (s *jwtService) GenerateAccessToken(userID uuid.UUID, email string, realm model.Realm) (string, error) {
	return s.sign(userID, email, realm, s.cfg.Secret, s.cfg.Expiry)
}

func (s *jwtService) GenerateRefreshToken(userID uuid.UUID, email string, realm model.Realm) (string, error) {
	return s.sign(userID, email, realm, s.cfg.RefreshSecret, s.cfg.RefreshExpiry)
}

func (s *jwtService) sign(userID uuid.UUID, email string, realm model.Realm, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"email":   email,
		"realm":   string(realm),
		"iat":     now.Unix(),
		"exp":     now.Add(expiry).Unix(),
	})

	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (s *jwtService) ValidateToken(token string) (*model.TokenClaims, error) {
	return s.parse(token, s.cfg.Secret)
}

func (s *jwtService) ValidateRefreshToken(token string) (*model.TokenClaims, error) {
	return s.parse(token, s.cfg.RefreshSecret)
}

func (s *jwtService) parse(tokenStr, secret string) (*model.TokenClaims, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	rawID, ok := claims["user_id"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID in token")
	}

	email, ok := claims["email"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	realm, ok := claims["realm"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	return &model.TokenClaims{
		UserID: userID,
		Email:  email,
		Realm:  model.Realm(realm),
	}, nil
}

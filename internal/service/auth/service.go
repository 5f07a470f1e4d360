package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"

	"github.com/jwalitptl/petclinic-api/internal/model"
	"github.com/jwalitptl/petclinic-api/internal/repository"
	"github.com/jwalitptl/petclinic-api/pkg/auth"
	apperrors "github.com/jwalitptl/petclinic-api/pkg/errors"
)

const bcryptCost = 12

// Service implements both identity realms. Owners and vets share the token
// mechanism but live in separate tables; the realm claim in the token keeps
// one side's credentials out of the other's endpoints.
type Service struct {
	users     repository.UserRepository
	vets      repository.VetRepository
	jwt       auth.JWTService
	validate  *validator.Validate
	blacklist *cache.Cache
}

func NewService(users repository.UserRepository, vets repository.VetRepository, jwtSvc auth.JWTService, tokenExpiry time.Duration) *Service {
	return &Service{
		users:    users,
		vets:     vets,
		jwt:      jwtSvc,
		validate: validator.New(),
		// Revoked tokens only need to be remembered until they expire
		// on their own.
		blacklist: cache.New(tokenExpiry, 10*time.Minute),
	}
}

// checkRequest runs the struct validation tags and reports every failing
// field in one error.
func (s *Service) checkRequest(req interface{}) error {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.NewValidation("body")
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, strings.ToLower(fe.Field()))
	}
	return apperrors.NewValidation(fields...)
}

// RegisterOwner creates an owner account and returns its profile.
func (s *Service) RegisterOwner(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if err := s.checkRequest(req); err != nil {
		return nil, err
	}
	if existing, err := s.users.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, apperrors.NewValidation("email")
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.NewPersistence("owner registration", err)
	}
	return user, nil
}

// RegisterVet creates a staff account and returns its profile.
func (s *Service) RegisterVet(ctx context.Context, req *model.RegisterVetRequest) (*model.Vet, error) {
	if err := s.checkRequest(req); err != nil {
		return nil, err
	}
	if existing, err := s.vets.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, apperrors.NewValidation("email")
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	vet := &model.Vet{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		Clinic:         req.Clinic,
		PasswordHash:   hash,
	}
	if err := s.vets.Create(ctx, vet); err != nil {
		return nil, apperrors.NewPersistence("vet registration", err)
	}
	return vet, nil
}

// LoginOwner checks the owner's credentials and issues a token pair.
func (s *Service) LoginOwner(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil || user == nil {
		return nil, apperrors.NewAuthRequired(err)
	}
	if !checkPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.NewAuthRequired(nil)
	}
	return s.issueTokens(user.ID, user.Email, model.RealmOwner)
}

// LoginVet checks the vet's credentials and issues a token pair.
func (s *Service) LoginVet(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	vet, err := s.vets.GetByEmail(ctx, req.Email)
	if err != nil || vet == nil {
		return nil, apperrors.NewAuthRequired(err)
	}
	if !checkPassword(vet.PasswordHash, req.Password) {
		return nil, apperrors.NewAuthRequired(nil)
	}
	return s.issueTokens(vet.ID, vet.Email, model.RealmVet)
}

// Refresh exchanges a valid refresh token for a new token pair. The realm
// carries over unchanged.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.NewAuthRequired(err)
	}
	return s.issueTokens(claims.UserID, claims.Email, claims.Realm)
}

// Logout revokes an access token for the remainder of its lifetime.
func (s *Service) Logout(ctx context.Context, token string) error {
	if _, err := s.jwt.ValidateToken(token); err != nil {
		return apperrors.NewAuthRequired(err)
	}
	s.blacklist.SetDefault(token, struct{}{})
	return nil
}

// IsRevoked reports whether a token has been logged out.
func (s *Service) IsRevoked(token string) bool {
	_, revoked := s.blacklist.Get(token)
	return revoked
}

// OwnerProfile returns the owner's display profile.
func (s *Service) OwnerProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	if userID == uuid.Nil {
		return nil, apperrors.NewAuthRequired(nil)
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, apperrors.NewNotFound("owner profile", err)
	}
	return user, nil
}

// VetProfile returns the vet's display profile.
func (s *Service) VetProfile(ctx context.Context, vetID uuid.UUID) (*model.Vet, error) {
	if vetID == uuid.Nil {
		return nil, apperrors.NewAuthRequired(nil)
	}
	vet, err := s.vets.Get(ctx, vetID)
	if err != nil {
		return nil, apperrors.NewNotFound("vet profile", err)
	}
	return vet, nil
}

func (s *Service) issueTokens(userID uuid.UUID, email string, realm model.Realm) (*model.TokenResponse, error) {
	access, err := s.jwt.GenerateAccessToken(userID, email, realm)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(userID, email, realm)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &model.TokenResponse{AccessToken: access, RefreshToken: refresh}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/petclinic-api/internal/model"
	"github.com/jwalitptl/petclinic-api/internal/repository"
)

type vetRepository struct {
	BaseRepository
}

func NewVetRepository(db *sqlx.DB) repository.VetRepository {
	return &vetRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *vetRepository) Create(ctx context.Context, vet *model.Vet) error {
	query := `
		INSERT INTO vets (id, name, email, phone, specialization, clinic, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if vet.ID == uuid.Nil {
		vet.ID = uuid.New()
	}
	vet.CreatedAt = time.Now()
	vet.UpdatedAt = vet.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		vet.ID, vet.Name, vet.Email, vet.Phone, vet.Specialization, vet.Clinic,
		vet.PasswordHash, vet.CreatedAt, vet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create vet: %w", err)
	}
	return nil
}

func (r *vetRepository) Get(ctx context.Context, id uuid.UUID) (*model.Vet, error) {
	query := `
		SELECT id, name, email, phone, specialization, clinic, password_hash, created_at, updated_at
		FROM vets WHERE id = $1
	`
	var vet model.Vet
	if err := r.db.GetContext(ctx, &vet, query, id); err != nil {
		return nil, fmt.Errorf("failed to get vet: %w", err)
	}
	return &vet, nil
}

func (r *vetRepository) GetByEmail(ctx context.Context, email string) (*model.Vet, error) {
	query := `
		SELECT id, name, email, phone, specialization, clinic, password_hash, created_at, updated_at
		FROM vets WHERE email = $1
	`
	var vet model.Vet
	if err := r.db.GetContext(ctx, &vet, query, email); err != nil {
		return nil, fmt.Errorf("failed to get vet by email: %w", err)
	}
	return &vet, nil
}

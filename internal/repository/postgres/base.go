package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/petclinic-api/internal/repository"
	"github.com/jwalitptl/petclinic-api/pkg/metrics"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	db *sqlx.DB
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sqlx.DB) BaseRepository {
	return BaseRepository{db: db}
}

// NewTxRunner exposes the shared transaction helper to the service layer,
// instrumented with commit/rollback counters when metrics are provided.
func NewTxRunner(db *sqlx.DB, m *metrics.Metrics) repository.Tx {
	return &txRunner{BaseRepository: NewBaseRepository(db), metrics: m}
}

type txRunner struct {
	BaseRepository
	metrics *metrics.Metrics
}

func (r *txRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	start := time.Now()
	err := r.BaseRepository.WithTx(ctx, fn)
	if r.metrics != nil {
		status := "committed"
		if err != nil {
			status = "rolled_back"
		}
		r.metrics.Transactions.WithLabelValues(status).Inc()
		r.metrics.TransactionDuration.Observe(time.Since(start).Seconds())
	}
	return err
}

// GetDB returns the database instance
func (r *BaseRepository) GetDB() *sqlx.DB {
	return r.db
}

// WithTx executes a function within a transaction
func (r *BaseRepository) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

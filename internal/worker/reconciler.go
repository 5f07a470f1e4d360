package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/petclinic-api/internal/model"
	"github.com/jwalitptl/petclinic-api/internal/repository"
	"github.com/jwalitptl/petclinic-api/pkg/metrics"
)

// Reconciler repairs bookings that lost their paired medical record. The
// paired write is transactional, so orphans only appear through external
// writes or data imported from the pre-transactional store.
type Reconciler struct {
	bookings  repository.BookingRepository
	records   repository.RecordRepository
	batchSize int
	interval  time.Duration
	metrics   *metrics.Metrics
}

func NewReconciler(
	bookings repository.BookingRepository,
	records repository.RecordRepository,
	batchSize int,
	interval time.Duration,
	m *metrics.Metrics,
) *Reconciler {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Reconciler{
		bookings:  bookings,
		records:   records,
		batchSize: batchSize,
		interval:  interval,
		metrics:   m,
	}
}

// Start sweeps on the configured interval until the context is cancelled.
func (r *Reconciler) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Sweep(ctx); err != nil {
				if r.metrics != nil {
					r.metrics.ReconcilerErrors.Inc()
				}
				log.Error().Err(err).Msg("reconciliation sweep failed")
			}
		}
	}
}

// Sweep finds bookings without a medical record and creates the missing
// empty record for each.
func (r *Reconciler) Sweep(ctx context.Context) error {
	orphans, err := r.bookings.ListOrphaned(ctx, r.batchSize)
	if err != nil {
		return fmt.Errorf("failed to list orphaned bookings: %w", err)
	}
	if len(orphans) == 0 {
		return nil
	}

	if r.metrics != nil {
		r.metrics.OrphansDetected.Add(float64(len(orphans)))
	}
	log.Info().Int("count", len(orphans)).Msg("found bookings without medical records")

	var firstErr error
	for _, booking := range orphans {
		record := &model.MedicalRecord{
			BookingID:        booking.ID,
			UserID:           booking.UserID,
			PetName:          booking.PetName,
			PetType:          booking.PetType,
			Service:          booking.Service,
			VisitDate:        booking.Date,
			VisitTime:        booking.Time,
			EstimatedEndTime: booking.EstimatedEndTime,
			Notes:            booking.Notes,
		}
		if err := r.records.Create(ctx, record); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("failed to repair booking %s: %w", booking.ID, err)
			}
			if r.metrics != nil {
				r.metrics.ReconcilerErrors.Inc()
			}
			log.Error().Err(err).Str("booking_id", booking.ID.String()).Msg("failed to create missing record")
			continue
		}
		if r.metrics != nil {
			r.metrics.OrphansRepaired.Inc()
		}
		log.Info().
			Str("booking_id", booking.ID.String()).
			Str("record_id", record.ID.String()).
			Msg("created missing medical record")
	}
	return firstErr
}

package analytics

import (
	"context"
	"fmt"
	"sort"

	"github.com/jwalitptl/petclinic-api/internal/model"
	"github.com/jwalitptl/petclinic-api/internal/repository"
)

// Service recomputes clinic statistics from scratch on every call. The
// completed-booking population is small enough that a full fold is cheaper
// than keeping counters consistent with the transactional writes.
type Service struct {
	bookings repository.BookingRepository
}

func NewService(bookings repository.BookingRepository) *Service {
	return &Service{bookings: bookings}
}

// Snapshot folds every completed booking into per-service and per-pet-type
// frequency breakdowns, most frequent first.
func (s *Service) Snapshot(ctx context.Context) (*model.AnalyticsSnapshot, error) {
	completed, err := s.bookings.ListCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed bookings: %w", err)
	}

	total := len(completed)
	snapshot := &model.AnalyticsSnapshot{
		TotalCompletedBookings: total,
		ServiceBreakdown:       []model.ServiceStats{},
		PetTypeBreakdown:       []model.PetTypeStats{},
	}
	if total == 0 {
		return snapshot, nil
	}

	serviceCounts := make(map[string]int)
	petTypeCounts := make(map[string]int)
	for _, booking := range completed {
		serviceCounts[booking.Service]++
		petTypeCounts[booking.PetType]++
	}

	for service, count := range serviceCounts {
		snapshot.ServiceBreakdown = append(snapshot.ServiceBreakdown, model.ServiceStats{
			Service:    service,
			Count:      count,
			Percentage: percentage(count, total),
		})
	}
	for petType, count := range petTypeCounts {
		snapshot.PetTypeBreakdown = append(snapshot.PetTypeBreakdown, model.PetTypeStats{
			PetType:    petType,
			Count:      count,
			Percentage: percentage(count, total),
		})
	}

	sort.SliceStable(snapshot.ServiceBreakdown, func(i, j int) bool {
		a, b := snapshot.ServiceBreakdown[i], snapshot.ServiceBreakdown[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Service < b.Service
	})
	sort.SliceStable(snapshot.PetTypeBreakdown, func(i, j int) bool {
		a, b := snapshot.PetTypeBreakdown[i], snapshot.PetTypeBreakdown[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.PetType < b.PetType
	})

	snapshot.MostPopularService = &snapshot.ServiceBreakdown[0]
	snapshot.MostCommonPetType = &snapshot.PetTypeBreakdown[0]
	return snapshot, nil
}

func percentage(count, total int) float64 {
	return float64(count) / float64(total) * 100
}

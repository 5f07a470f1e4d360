package model

// ServiceStats is one row of the per-service frequency breakdown.
type ServiceStats struct {
	Service    string  `json:"service"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// PetTypeStats is one row of the per-pet-type frequency breakdown.
type PetTypeStats struct {
	PetType    string  `json:"pet_type"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// AnalyticsSnapshot is a full recomputation over all completed bookings.
// It is never cached.
type AnalyticsSnapshot struct {
	TotalCompletedBookings int            `json:"total_completed_bookings"`
	MostPopularService     *ServiceStats  `json:"most_popular_service"`
	MostCommonPetType      *PetTypeStats  `json:"most_common_pet_type"`
	ServiceBreakdown       []ServiceStats `json:"service_breakdown"`
	PetTypeBreakdown       []PetTypeStats `json:"pet_type_breakdown"`
}

package schedule

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultDuration is assumed for any service not in the table.
const DefaultDuration = 30

// ServiceDurations maps a service name to its appointment length in minutes.
var ServiceDurations = map[string]int{
	"Vaccination":  30,
	"Examination":  45,
	"Grooming":     60,
	"Surgery":      120,
	"Dental Care":  45,
	"Consultation": 20,
}

// TimeSlots are the bookable start times offered to customers.
var TimeSlots = []string{
	"08:00", "09:00", "10:00", "11:00", "12:00", "13:00",
	"14:00", "15:00", "16:00", "17:00", "18:00", "19:00",
}

// PetTypes are the species categories offered on the booking form. The
// field itself is free text; this list only seeds the UI.
var PetTypes = []string{"Dog", "Cat", "Rabbit", "Hamster", "Bird", "Other"}

// LookupDuration returns the table duration for a service, falling back to
// DefaultDuration for unknown names. Unknown names are not an error.
func LookupDuration(service string) int {
	if d, ok := ServiceDurations[service]; ok {
		return d
	}
	return DefaultDuration
}

// ResolveDuration picks the effective appointment length. A positive
// caller-supplied override always wins, even for recognized services.
func ResolveDuration(service string, override int) int {
	if override > 0 {
		return override
	}
	return LookupDuration(service)
}

// ComputeEndTime adds durationMinutes of wall-clock time to an "HH:MM"
// start. The result wraps past midnight without carrying into the date
// ("23:50" + 30 yields "00:20"); appointments are assumed not to cross
// midnight in practice.
func ComputeEndTime(start string, durationMinutes int) (string, error) {
	if durationMinutes < 0 {
		return "", fmt.Errorf("negative duration: %d", durationMinutes)
	}

	hours, minutes, err := parseClock(start)
	if err != nil {
		return "", err
	}

	total := hours*60 + minutes + durationMinutes
	total %= 24 * 60

	return fmt.Sprintf("%02d:%02d", total/60, total%60), nil
}

func parseClock(value string) (int, int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q: want HH:MM", value)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, 0, fmt.Errorf("invalid hour in %q", value)
	}

	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, 0, fmt.Errorf("invalid minute in %q", value)
	}

	return hours, minutes, nil
}

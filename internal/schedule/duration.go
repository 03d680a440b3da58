package schedule

import (
	"strconv"
	"strings"
)

const (
	// DefaultDurationDays is used when a duration label cannot be parsed.
	DefaultDurationDays = 7
	// OngoingDurationDays bounds "ongoing" prescriptions to a year of doses.
	OngoingDurationDays = 365
)

// ParseDuration maps a duration label to a day count. The second return is
// false for "as-needed", which is excluded from scheduling entirely.
// Malformed labels default to 7 days.
func ParseDuration(label string) (days int, scheduled bool) {
	switch label {
	case "as-needed":
		return 0, false
	case "ongoing":
		return OngoingDurationDays, true
	}
	prefix, _, found := strings.Cut(label, "-")
	if !found {
		return DefaultDurationDays, true
	}
	n, err := strconv.Atoi(prefix)
	if err != nil || n <= 0 {
		return DefaultDurationDays, true
	}
	return n, true
}

package adherence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/medminder/internal/schedule"
)

const (
	// FixedClockWindow is the tolerance for fixed-clock schedules.
	FixedClockWindow = 15 * time.Minute
	maxWindow        = 15 * time.Minute
	minWindow        = 1 * time.Minute
)

// Window returns the tolerance around a scheduled dose time within which a
// logged dose counts as on time. Interval schedules use a quarter of the
// interval, floored to whole minutes, clamped to [1m, 15m].
func Window(freq schedule.Frequency) time.Duration {
	if freq.FixedClock() {
		return FixedClockWindow
	}
	w := time.Duration(int(freq.Interval.Minutes())/4) * time.Minute
	if w < minWindow {
		return minWindow
	}
	if w > maxWindow {
		return maxWindow
	}
	return w
}

// DoseLog is the read side of the taken-dose store. The range is inclusive
// on both ends.
type DoseLog interface {
	ExistsInRange(ctx context.Context, prescriptionID uuid.UUID, medicine string, from, to time.Time) (bool, error)
}

// Matcher decides whether a scheduled dose was taken, using the tolerance
// window around the scheduled time. First matching event wins; duplicate
// events near the same slot are harmless.
type Matcher struct {
	doses DoseLog
}

func NewMatcher(doses DoseLog) *Matcher {
	return &Matcher{doses: doses}
}

func (m *Matcher) Taken(ctx context.Context, prescriptionID uuid.UUID, medicine string, scheduledAt time.Time, window time.Duration) (bool, error) {
	taken, err := m.doses.ExistsInRange(ctx, prescriptionID, medicine, scheduledAt.Add(-window), scheduledAt.Add(window))
	if err != nil {
		return false, fmt.Errorf("failed to check taken doses: %w", err)
	}
	return taken, nil
}

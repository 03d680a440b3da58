package schedule

import "time"

// ClockTime is a time-of-day slot on a fixed-clock dose grid.
type ClockTime struct {
	Hour   int
	Minute int
}

// Frequency is a parsed dosing frequency. Exactly one of Grid or Interval is
// set for schedulable frequencies; AsNeeded frequencies are never scheduled.
type Frequency struct {
	Name     string
	Grid     []ClockTime
	Interval time.Duration
	AsNeeded bool
}

// FixedClock reports whether doses fall on fixed times of day rather than a
// rolling interval from the prescription anchor.
func (f Frequency) FixedClock() bool {
	return len(f.Grid) > 0
}

// DefaultInterval is the fallback for unrecognized frequency labels.
const DefaultInterval = 24 * time.Hour

var clockGrids = map[string][]ClockTime{
	"once-daily":        {{9, 0}},
	"twice-daily":       {{8, 0}, {20, 0}},
	"three-times-daily": {{8, 0}, {14, 0}, {20, 0}},
	"four-times-daily":  {{8, 0}, {12, 0}, {16, 0}, {20, 0}},
}

var intervals = map[string]time.Duration{
	"every-30-minutes": 30 * time.Minute,
	"every-4-hours":    4 * time.Hour,
	"every-6-hours":    6 * time.Hour,
	"every-8-hours":    8 * time.Hour,
	"every-12-hours":   12 * time.Hour,
	"weekly":           7 * 24 * time.Hour,
	"monthly":          30 * 24 * time.Hour,
}

// ParseFrequency maps a frequency label to its schedule shape. Unknown labels
// fall back to a 24-hour interval rather than failing.
func ParseFrequency(name string) Frequency {
	if name == "as-needed" {
		return Frequency{Name: name, AsNeeded: true}
	}
	if grid, ok := clockGrids[name]; ok {
		return Frequency{Name: name, Grid: grid}
	}
	if iv, ok := intervals[name]; ok {
		return Frequency{Name: name, Interval: iv}
	}
	return Frequency{Name: name, Interval: DefaultInterval}
}

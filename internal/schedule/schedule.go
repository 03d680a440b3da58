package schedule

import (
	"time"

	"github.com/jwalitptl/medminder/internal/model"
)

// noonHour: prescriptions written at or after noon start their fixed-clock
// grid the following day, so slots already in the past at creation time never
// count as missed.
const noonHour = 12

// Expand returns the ordered expected dose times for rule, anchored at the
// prescription's creation time, up to and including until. The result never
// extends past anchor plus the rule's duration. Expansion is deterministic:
// it depends only on the rule, the anchor and the bound.
func Expand(rule model.DosingRule, anchor, until time.Time) []time.Time {
	freq := ParseFrequency(rule.Frequency)
	if freq.AsNeeded {
		return nil
	}
	days, scheduled := ParseDuration(rule.Duration)
	if !scheduled {
		return nil
	}

	if freq.FixedClock() {
		return expandGrid(freq.Grid, anchor, days, until)
	}
	return expandInterval(freq.Interval, anchor, days, until)
}

func expandGrid(grid []ClockTime, anchor time.Time, days int, until time.Time) []time.Time {
	loc := anchor.Location()
	end := anchor.AddDate(0, 0, days)

	startDay := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, loc)
	if anchor.Hour() >= noonHour {
		startDay = startDay.AddDate(0, 0, 1)
	}

	var out []time.Time
	for offset := 0; offset < days; offset++ {
		day := startDay.AddDate(0, 0, offset)
		for _, ct := range grid {
			ts := time.Date(day.Year(), day.Month(), day.Day(), ct.Hour, ct.Minute, 0, 0, loc)
			if ts.After(until) || ts.After(end) {
				continue
			}
			out = append(out, ts)
		}
	}
	return out
}

func expandInterval(interval time.Duration, anchor time.Time, days int, until time.Time) []time.Time {
	end := anchor.AddDate(0, 0, days)

	var out []time.Time
	for ts := anchor; ts.Before(end); ts = ts.Add(interval) {
		if ts.After(until) {
			break
		}
		out = append(out, ts)
	}
	return out
}

package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/medminder/internal/model"
)

func ts(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		name     string
		grid     int
		interval time.Duration
		asNeeded bool
	}{
		{"once-daily", 1, 0, false},
		{"twice-daily", 2, 0, false},
		{"three-times-daily", 3, 0, false},
		{"four-times-daily", 4, 0, false},
		{"every-4-hours", 0, 4 * time.Hour, false},
		{"every-6-hours", 0, 6 * time.Hour, false},
		{"every-8-hours", 0, 8 * time.Hour, false},
		{"every-12-hours", 0, 12 * time.Hour, false},
		{"every-30-minutes", 0, 30 * time.Minute, false},
		{"weekly", 0, 7 * 24 * time.Hour, false},
		{"monthly", 0, 30 * 24 * time.Hour, false},
		{"as-needed", 0, 0, true},
		{"something-else", 0, 24 * time.Hour, false},
		{"", 0, 24 * time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := ParseFrequency(tt.name)
			assert.Len(t, f.Grid, tt.grid)
			assert.Equal(t, tt.interval, f.Interval)
			assert.Equal(t, tt.asNeeded, f.AsNeeded)
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		label     string
		days      int
		scheduled bool
	}{
		{"7-days", 7, true},
		{"3-days", 3, true},
		{"30-days", 30, true},
		{"ongoing", 365, true},
		{"as-needed", 0, false},
		{"garbage", 7, true},
		{"x-days", 7, true},
		{"-5-days", 7, true},
		{"", 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			days, scheduled := ParseDuration(tt.label)
			assert.Equal(t, tt.days, days)
			assert.Equal(t, tt.scheduled, scheduled)
		})
	}
}

func TestExpandFixedClockMorningAnchor(t *testing.T) {
	rule := model.DosingRule{Name: "Paracetamol", Frequency: "twice-daily", Duration: "3-days"}
	anchor := ts(2024, time.January, 1, 9, 0)
	until := ts(2024, time.February, 1, 0, 0)

	got := Expand(rule, anchor, until)

	// Created before noon: the grid starts on the creation date, including
	// the 08:00 slot that had already passed at creation time.
	want := []time.Time{
		ts(2024, time.January, 1, 8, 0),
		ts(2024, time.January, 1, 20, 0),
		ts(2024, time.January, 2, 8, 0),
		ts(2024, time.January, 2, 20, 0),
		ts(2024, time.January, 3, 8, 0),
		ts(2024, time.January, 3, 20, 0),
	}
	assert.Equal(t, want, got)
}

func TestExpandFixedClockAfternoonAnchor(t *testing.T) {
	rule := model.DosingRule{Name: "Paracetamol", Frequency: "twice-daily", Duration: "3-days"}
	anchor := ts(2024, time.January, 1, 13, 0)
	until := ts(2024, time.February, 1, 0, 0)

	got := Expand(rule, anchor, until)

	// Created at or after noon: the grid starts the next day, and the last
	// grid day's evening slot falls past anchor+3d so it is cut off.
	want := []time.Time{
		ts(2024, time.January, 2, 8, 0),
		ts(2024, time.January, 2, 20, 0),
		ts(2024, time.January, 3, 8, 0),
		ts(2024, time.January, 3, 20, 0),
		ts(2024, time.January, 4, 8, 0),
	}
	assert.Equal(t, want, got)
}

func TestExpandFixedClockNoonBoundary(t *testing.T) {
	rule := model.DosingRule{Name: "Med", Frequency: "once-daily", Duration: "1-days"}
	until := ts(2024, time.June, 1, 0, 0)

	before := Expand(rule, ts(2024, time.January, 1, 11, 59), until)
	require.Len(t, before, 1)
	assert.Equal(t, ts(2024, time.January, 1, 9, 0), before[0])

	atNoon := Expand(rule, ts(2024, time.January, 1, 12, 0), until)
	require.Len(t, atNoon, 1)
	assert.Equal(t, ts(2024, time.January, 2, 9, 0), atNoon[0])
}

func TestExpandInterval(t *testing.T) {
	rule := model.DosingRule{Name: "Ibuprofen", Frequency: "every-6-hours", Duration: "2-days"}
	anchor := ts(2024, time.January, 1, 0, 0)
	until := ts(2024, time.February, 1, 0, 0)

	got := Expand(rule, anchor, until)

	require.Len(t, got, 8)
	assert.Equal(t, anchor, got[0])
	assert.Equal(t, ts(2024, time.January, 2, 18, 0), got[7])
	for i := 1; i < len(got); i++ {
		assert.Equal(t, 6*time.Hour, got[i].Sub(got[i-1]))
	}
}

func TestExpandIntervalRespectsUpperBound(t *testing.T) {
	rule := model.DosingRule{Name: "Med", Frequency: "every-4-hours", Duration: "7-days"}
	anchor := ts(2024, time.January, 1, 0, 0)
	until := ts(2024, time.January, 1, 9, 0)

	got := Expand(rule, anchor, until)

	want := []time.Time{
		ts(2024, time.January, 1, 0, 0),
		ts(2024, time.January, 1, 4, 0),
		ts(2024, time.January, 1, 8, 0),
	}
	assert.Equal(t, want, got)
}

func TestExpandNeverPastDuration(t *testing.T) {
	until := ts(2030, time.January, 1, 0, 0)

	rules := []model.DosingRule{
		{Name: "a", Frequency: "twice-daily", Duration: "5-days"},
		{Name: "b", Frequency: "every-8-hours", Duration: "5-days"},
		{Name: "c", Frequency: "weekly", Duration: "30-days"},
		{Name: "d", Frequency: "unknown-label", Duration: "not-a-duration"},
	}
	anchor := ts(2024, time.March, 10, 15, 30)

	for _, rule := range rules {
		t.Run(rule.Name, func(t *testing.T) {
			days, _ := ParseDuration(rule.Duration)
			end := anchor.AddDate(0, 0, days)
			for _, got := range Expand(rule, anchor, until) {
				assert.False(t, got.After(end), "dose %v past window end %v", got, end)
			}
		})
	}
}

func TestExpandDeterministic(t *testing.T) {
	rule := model.DosingRule{Name: "Med", Frequency: "every-12-hours", Duration: "14-days"}
	anchor := ts(2024, time.May, 5, 7, 45)
	until := ts(2024, time.May, 12, 0, 0)

	first := Expand(rule, anchor, until)
	second := Expand(rule, anchor, until)

	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestExpandAsNeeded(t *testing.T) {
	until := ts(2030, time.January, 1, 0, 0)
	anchor := ts(2024, time.January, 1, 9, 0)

	assert.Empty(t, Expand(model.DosingRule{Name: "a", Frequency: "as-needed", Duration: "7-days"}, anchor, until))
	assert.Empty(t, Expand(model.DosingRule{Name: "b", Frequency: "once-daily", Duration: "as-needed"}, anchor, until))
}

func TestExpandOngoing(t *testing.T) {
	rule := model.DosingRule{Name: "Med", Frequency: "weekly", Duration: "ongoing"}
	anchor := ts(2024, time.January, 1, 9, 0)
	until := ts(2030, time.January, 1, 0, 0)

	got := Expand(rule, anchor, until)

	// 365 days of weekly doses: anchor + 0..52 weeks, 364 days being the
	// last step inside the window.
	require.Len(t, got, 53)
	assert.Equal(t, anchor.AddDate(0, 0, 364), got[52])
}

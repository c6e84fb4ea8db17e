package timegrid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"parking-status-backend/internal/model"
)

func TestRound(t *testing.T) {
	testCases := []struct {
		name        string
		in          model.ClockTime
		interval    int
		want        model.ClockTime
		wantCarried bool
	}{
		{"rounds up past the midpoint", model.NewClockTime(10, 7), 10, model.NewClockTime(10, 10), false},
		{"rounds down below the midpoint", model.NewClockTime(10, 4), 10, model.NewClockTime(10, 0), false},
		{"half-up at the boundary", model.NewClockTime(10, 5), 10, model.NewClockTime(10, 10), false},
		{"exact multiple unchanged", model.NewClockTime(10, 0), 10, model.NewClockTime(10, 0), false},
		{"fifteen minute grid rounds down", model.NewClockTime(10, 7), 15, model.NewClockTime(10, 0), false},
		{"fifteen minute grid rounds up", model.NewClockTime(10, 8), 15, model.NewClockTime(10, 15), false},
		{"carries into the hour", model.NewClockTime(10, 57), 10, model.NewClockTime(11, 0), false},
		{"carries past midnight", model.NewClockTime(23, 58), 10, model.NewClockTime(0, 0), true},
		{"half-up at midnight", model.NewClockTime(23, 55), 10, model.NewClockTime(0, 0), true},
		{"midnight unchanged", model.NewClockTime(0, 0), 10, model.NewClockTime(0, 0), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, carried := Round(tc.in, tc.interval)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantCarried, carried)
		})
	}
}

func TestRoundTimestamp(t *testing.T) {
	// 2024-12-30 is a Monday.
	ts := time.Date(2024, 12, 30, 23, 58, 42, 0, time.UTC)
	got := RoundTimestamp(ts, 10)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.Tuesday, got.Weekday())

	got = RoundTimestamp(time.Date(2024, 12, 30, 10, 7, 59, 0, time.UTC), 10)
	assert.Equal(t, time.Date(2024, 12, 30, 10, 10, 0, 0, time.UTC), got)
}

func TestNextOccurrence(t *testing.T) {
	monday := time.Date(2024, 12, 30, 9, 0, 0, 0, time.UTC)

	// Inclusive of today when the weekday already matches.
	assert.Equal(t, monday, NextOccurrence(monday, time.Monday))
	assert.Equal(t, time.Friday, NextOccurrence(monday, time.Friday).Weekday())
	// Sunday is behind Monday in Go's week, so it is six days ahead.
	assert.Equal(t, monday.AddDate(0, 0, 6), NextOccurrence(monday, time.Sunday))
}

func TestResolve(t *testing.T) {
	monday := time.Date(2024, 12, 30, 9, 0, 0, 0, time.UTC)

	day := time.Friday
	gotDay, gotTime := Resolve(monday, &day, model.NewClockTime(10, 7), 10)
	assert.Equal(t, time.Friday, gotDay)
	assert.Equal(t, model.NewClockTime(10, 10), gotTime)

	// A midnight carry rolls the target weekday over.
	gotDay, gotTime = Resolve(monday, &day, model.NewClockTime(23, 58), 10)
	assert.Equal(t, time.Saturday, gotDay)
	assert.Equal(t, model.NewClockTime(0, 0), gotTime)

	// Without a target day the weekday comes from the reference date.
	gotDay, gotTime = Resolve(monday, nil, model.NewClockTime(10, 4), 10)
	assert.Equal(t, time.Monday, gotDay)
	assert.Equal(t, model.NewClockTime(10, 0), gotTime)
}

// Package timegrid aligns arbitrary timestamps with the bucketed weekly
// occupancy grid.
package timegrid

import (
	"time"

	"parking-status-backend/internal/model"
)

const minutesPerDay = 24 * 60

// Round rounds a clock time to the nearest multiple of interval minutes,
// half-up. carried reports an overflow past midnight, in which case the
// returned time has wrapped around (23:58 at interval 10 becomes 00:00 of
// the following day).
func Round(t model.ClockTime, interval int) (rounded model.ClockTime, carried bool) {
	m := (int(t) + interval/2) / interval * interval
	if m >= minutesPerDay {
		return model.ClockTime(m - minutesPerDay), true
	}
	return model.ClockTime(m), false
}

// RoundTimestamp rounds the minute component of ts to the nearest interval
// multiple, half-up, carrying overflow into the hour and day. Seconds are
// discarded.
func RoundTimestamp(ts time.Time, interval int) time.Time {
	rounded, carried := Round(model.ClockTimeOf(ts), interval)
	midnight := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
	if carried {
		midnight = midnight.AddDate(0, 0, 1)
	}
	return midnight.Add(time.Duration(rounded) * time.Minute)
}

// NextOccurrence advances from to the next occurrence of day, inclusive of
// from's own date when the weekday already matches.
func NextOccurrence(from time.Time, day time.Weekday) time.Time {
	ahead := (int(day) - int(from.Weekday()) + 7) % 7
	return from.AddDate(0, 0, ahead)
}

// Resolve maps a query onto a grid slot. When day is non-nil the current
// date is first advanced to its next occurrence, then t is rounded; a
// midnight carry rolls the day of week over. When day is nil the slot's
// weekday is taken from from itself, so callers that average across all
// days can ignore it.
func Resolve(from time.Time, day *time.Weekday, t model.ClockTime, interval int) (time.Weekday, model.ClockTime) {
	base := from
	if day != nil {
		base = NextOccurrence(from, *day)
	}
	rounded, carried := Round(t, interval)
	weekday := base.Weekday()
	if carried {
		weekday = (weekday + 1) % 7
	}
	return weekday, rounded
}

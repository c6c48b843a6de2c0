package habits

import (
	"time"
)

// DayFormat is the calendar-day encoding used everywhere: a timezone-naive
// YYYY-MM-DD string taken from the service wall clock.
const DayFormat = "2006-01-02"

// Today returns the current calendar day
func Today() string {
	return time.Now().Format(DayFormat)
}

// DateSet holds completed calendar days with O(1) membership
type DateSet map[string]struct{}

// Contains reports whether the day is in the set
func (s DateSet) Contains(day string) bool {
	_, ok := s[day]
	return ok
}

// CurrentStreak counts consecutive completed days walking backward from
// today. The walk stops at the first missing day, today included: an unbroken
// run that ended yesterday still scores 0. The dashboard's "save your streak"
// countdown depends on that cliff, so it is not a gap to smooth over.
//
// The same walk serves both call shapes: pass the union of a user's completed
// days for the per-user streak, or a single habit's days for its own.
func CurrentStreak(days DateSet, today string) int {
	dt, err := time.Parse(DayFormat, today)
	if err != nil {
		return 0
	}

	count := 0
	for days.Contains(dt.Format(DayFormat)) {
		count++
		dt = dt.AddDate(0, 0, -1)
	}
	return count
}

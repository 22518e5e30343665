package util

import "time"

// FirstOfMonth normalizes any date to the first day of its month, at
// midnight UTC. Applying it to an already-normalized date is a no-op.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthBounds returns the first and last calendar day of t's month, both at
// midnight UTC. The bounds are inclusive.
func MonthBounds(t time.Time) (time.Time, time.Time) {
	first := FirstOfMonth(t)
	last := first.AddDate(0, 1, -1)
	return first, last
}

package domain

import "time"

// CheckInResult is the outcome of applying a daily check-in.
type CheckInResult struct {
	Streak    int
	Reset     bool
	CheckedIn bool // false when today's check-in was already recorded
}

// ApplyCheckIn computes the new streak for a check-in happening today.
//
// The streak equals the length of the maximal trailing run of days, ending
// today, with no gap greater than one day. A second check-in on the same
// calendar day is a no-op; a gap of more than one full day restarts the run
// at 1. A last-active date in the future (corrupt record) is clamped so the
// delta reads as zero rather than failing.
func ApplyCheckIn(streak int, lastActive, today time.Time) CheckInResult {
	delta := daysBetween(lastActive, today)

	switch {
	case delta == 0 && streak > 0:
		return CheckInResult{Streak: streak, CheckedIn: false}
	case delta > 1 && streak > 0:
		return CheckInResult{Streak: 1, Reset: true, CheckedIn: true}
	default:
		return CheckInResult{Streak: streak + 1, CheckedIn: true}
	}
}

// daysBetween returns the whole-day distance from a to b, clamped at zero.
func daysBetween(a, b time.Time) int {
	d := int(DateOnly(b).Sub(DateOnly(a)).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// Package timeline maps calendar dates onto the discrete weekly
// columns used to position release and sprint bars. Only the forward
// mapping lives client-side; the column→date-range inverse comes from
// the backend and is authoritative.
package timeline

import "time"

// Column returns the 1-based weekly column index for date on a
// timeline starting at start, clamped to [1, columnCount]. The
// distance is computed on calendar days, not raw epoch arithmetic, so
// DST transitions cannot shift a date across a week boundary.
func Column(date, start time.Time, columnCount int) int {
	days := calendarDays(start, date)
	col := days/7 + 1
	if days < 0 {
		// Go integer division truncates toward zero; dates before the
		// timeline start must still clamp from below.
		col = 1
	}
	if col < 1 {
		col = 1
	}
	if col > columnCount {
		col = columnCount
	}
	return col
}

// WeekStart returns the Monday 00:00 of t's week in t's location.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	// time.Weekday puts Sunday at 0; shift so Monday is the anchor.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// IsCurrentWeek reports whether the column anchored at anchor is the
// week containing now. Both sides normalize to their Monday-aligned
// week start and compare on local calendar components only.
func IsCurrentWeek(anchor, now time.Time) bool {
	a, b := WeekStart(anchor), WeekStart(now)
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// calendarDays counts whole calendar days from a to b. Both dates are
// rebuilt at midnight UTC so the subtraction is exact regardless of
// the wall-clock offsets they carried.
func calendarDays(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua) / (24 * time.Hour))
}

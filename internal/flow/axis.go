package flow

import (
	"fmt"
	"time"
)

// DateAxis is a contiguous daily date range [Since, Until). Every analysis
// replays against the full axis so that days without activity still appear
// as zero rows.
type DateAxis struct {
	Since time.Time
	Until time.Time
}

// NewDateAxis builds an axis with both bounds snapped to the start of day.
func NewDateAxis(since, until time.Time) DateAxis {
	return DateAxis{
		Since: SnapToDay(since),
		Until: SnapToDay(until),
	}
}

// Days returns every calendar day in [Since, Until), in order, no gaps.
func (a DateAxis) Days() []time.Time {
	var days []time.Time
	for d := a.Since; d.Before(a.Until); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Contains reports whether t falls inside [Since, Until).
func (a DateAxis) Contains(t time.Time) bool {
	return !t.Before(a.Since) && t.Before(a.Until)
}

// Label returns the canonical per-day label.
func (a DateAxis) Label(t time.Time) string {
	return t.Format("2006-01-02")
}

// SnapToDay normalizes a timestamp to the beginning of its calendar day.
func SnapToDay(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekEndingMonday returns the Monday that closes the week containing t.
// Weeks run Tuesday through Monday, so a Monday maps to itself.
func WeekEndingMonday(t time.Time) time.Time {
	d := SnapToDay(t)
	daysToAdd := (int(time.Monday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, daysToAdd)
}

// CountWeekendDays counts Saturdays and Sundays in the inclusive calendar
// range [start, end]. Used for the coarse weekend subtraction applied to
// lead and cycle times.
func CountWeekendDays(start, end time.Time) int {
	s := SnapToDay(start)
	e := SnapToDay(end)
	if e.Before(s) {
		return 0
	}
	count := 0
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			count++
		}
	}
	return count
}

// WeekLabel returns a human-readable label for a week bucket.
func WeekLabel(weekEnding time.Time) string {
	year, week := weekEnding.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

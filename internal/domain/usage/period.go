package usage

import "time"

// PeriodType identifies the accounting window a total or debt belongs to
type PeriodType string

const (
	PeriodDaily  PeriodType = "daily"
	PeriodWeekly PeriodType = "weekly"
)

// DayBounds returns the inclusive start and exclusive end of the
// calendar day containing t, in t's location.
func DayBounds(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end = start.AddDate(0, 0, 1)
	return start, end
}

// WeekStart returns midnight of the Monday of the ISO week containing t.
// Weeks run Monday through Sunday.
func WeekStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	daysFromMonday := weekday - 1

	dayStart, _ := DayBounds(t)
	return dayStart.AddDate(0, 0, -daysFromMonday)
}

// WeekBounds returns the inclusive start (Monday 00:00) and exclusive
// end (next Monday 00:00) of the ISO week containing t.
func WeekBounds(t time.Time) (start, end time.Time) {
	start = WeekStart(t)
	end = start.AddDate(0, 0, 7)
	return start, end
}

// Totals holds an agent's accumulated page counts for the day and the
// ISO week containing a reference instant.
type Totals struct {
	Day       int       // Pages printed in the calendar day
	Week      int       // Pages printed since Monday of the ISO week
	DayStart  time.Time // Midnight of the reference day
	WeekStart time.Time // Monday 00:00 of the reference week
}

// TotalsAt computes period totals from a set of events relative to the
// instant at. Events outside both windows are ignored.
func TotalsAt(events []*PrintEvent, at time.Time) Totals {
	dayStart, dayEnd := DayBounds(at)
	weekStart, weekEnd := WeekBounds(at)

	totals := Totals{DayStart: dayStart, WeekStart: weekStart}
	for _, e := range events {
		if !e.OccurredAt.Before(weekStart) && e.OccurredAt.Before(weekEnd) {
			totals.Week += e.Pages
		}
		if !e.OccurredAt.Before(dayStart) && e.OccurredAt.Before(dayEnd) {
			totals.Day += e.Pages
		}
	}
	return totals
}

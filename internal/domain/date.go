package domain

import (
	"math"
	"time"
)

const (
	// DateLayout is the wire and storage format of Event.Date.
	DateLayout = "2006-01-02"
	// ClockLayout is the wire and storage format of Event.Time.
	ClockLayout = "15:04"
)

// ParseDate parses a YYYY-MM-DD string as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders t's calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseClock validates a zero-padded HH:MM string.
func ParseClock(s string) (time.Time, error) {
	return time.Parse(ClockLayout, s)
}

// DaysInMonth returns the number of days in month of year.
// It is computed as day 0 of the following month, so leap years fall out of
// the calendar arithmetic rather than a lookup table.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekdayOfMonth returns the weekday of the 1st of month (Sunday = 0).
func FirstWeekdayOfMonth(year int, month time.Month) time.Weekday {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
}

// StartOfWeek returns the Sunday on or before t, at t's time of day.
func StartOfWeek(t time.Time) time.Time {
	return t.AddDate(0, 0, -int(t.Weekday()))
}

// DaysSinceLastMade returns the whole-day distance between now and the most
// recent event named mealName, or nil if no event matches.
//
// The match is an exact, case-sensitive comparison of MealName. The distance
// is the ceiling of the absolute difference, so an event dated in the future
// also yields a positive count. Events with unparseable dates are ignored.
func DaysSinceLastMade(events []Event, mealName string, now time.Time) *int {
	var (
		last  time.Time
		found bool
	)
	for _, e := range events {
		if e.MealName != mealName {
			continue
		}
		d, err := ParseDate(e.Date)
		if err != nil {
			continue
		}
		if !found || d.After(last) {
			last, found = d, true
		}
	}
	if !found {
		return nil
	}

	diff := now.Sub(last)
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(diff.Hours() / 24))
	return &days
}

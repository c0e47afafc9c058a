package dateutil

import (
	"errors"
	"fmt"
	"time"
)

// ErrWeekRange is returned for ISO week numbers outside 1..53.
var ErrWeekRange = errors.New("week number out of range")

// Date builds a calendar date with no time-of-day component. All dates in
// this package are naive: the service reports wall-clock values and no
// timezone conversion is performed anywhere.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// LastDayOfMonth returns the number of the last day of the given month,
// accounting for leap years.
func LastDayOfMonth(year int, month time.Month) int {
	// Day zero of the next month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// isoWeekday returns the ISO weekday number: Monday is 1, Sunday is 7.
func isoWeekday(d time.Time) int {
	wd := int(d.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// FromWeekNumber returns the Monday of the given ISO week, or the Sunday of
// that week when end is true.
//
// The computation starts from the first Monday of the year (week one under
// naive week counting) and then corrects for ISO 8601, which defines week
// one as the first week containing a Thursday: when January 4th falls after
// Thursday the naive result is one week late.
func FromWeekNumber(year, week int, end bool) (time.Time, error) {
	if week <= 0 || week > 53 {
		return time.Time{}, fmt.Errorf("%w: %d", ErrWeekRange, week)
	}

	jan1 := Date(year, time.January, 1)
	firstMonday := jan1.AddDate(0, 0, (8-int(jan1.Weekday()))%7)
	d := firstMonday.AddDate(0, 0, (week-1)*7)

	if isoWeekday(Date(year, time.January, 4)) > 4 {
		d = d.AddDate(0, 0, -7)
	}
	if end {
		d = d.AddDate(0, 0, 6)
	}
	return d, nil
}

// FromQuarterNumber returns the first day of the given quarter (1..4), or
// the last day when end is true.
func FromQuarterNumber(year, quarter int, end bool) time.Time {
	if end {
		month := time.Month(quarter * 3)
		return Date(year, month, LastDayOfMonth(year, month))
	}
	return Date(year, time.Month((quarter-1)*3+1), 1)
}

// FromHalfNumber returns the first day of the given half-year (1..2), or
// the last day when end is true.
func FromHalfNumber(year, half int, end bool) time.Time {
	if end {
		month := time.Month(half * 6)
		return Date(year, month, LastDayOfMonth(year, month))
	}
	return Date(year, time.Month((half-1)*6+1), 1)
}

// FromYear returns January 1st of the given year, or December 31st when
// end is true.
func FromYear(year int, end bool) time.Time {
	if end {
		return Date(year, time.December, 31)
	}
	return Date(year, time.January, 1)
}

// YearAndWeekNumber returns the ISO year and week number of a date. Note
// that the ISO year can differ from the calendar year around January 1st.
func YearAndWeekNumber(d time.Time) (int, int) {
	return d.ISOWeek()
}

// Monday returns the Monday of the ISO week containing d.
func Monday(d time.Time) time.Time {
	year, week := d.ISOWeek()
	// ISOWeek never yields a week outside 1..53.
	m, _ := FromWeekNumber(year, week, false)
	return m
}

// WeeksIn returns the Mondays of every ISO week touched by the inclusive
// date range, in ascending order.
func WeeksIn(start, end time.Time) []time.Time {
	week := Monday(start)
	last := Monday(end)

	var weeks []time.Time
	for !week.After(last) {
		weeks = append(weeks, week)
		week = week.AddDate(0, 0, 7)
	}
	return weeks
}

// SameDate reports whether two values fall on the same calendar day.
func SameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// FormatHours renders a duration as zero-padded "hours:minutes". Totals
// beyond 24 hours keep accumulating hours rather than rolling into days.
func FormatHours(d time.Duration) string {
	minutes := int(d / time.Minute)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

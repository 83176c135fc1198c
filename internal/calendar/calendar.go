// Package calendar holds the business-day arithmetic used by leave booking.
// Saturdays and Sundays are not business days; holidays are not modelled.
package calendar

import (
	"iter"
	"time"
)

const DateLayout = "2006-01-02"

// Date truncates t to midnight UTC of its calendar day.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD token into a UTC date.
func ParseDate(v string) (time.Time, error) {
	return time.Parse(DateLayout, v)
}

func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func IsBusinessDay(t time.Time) bool { return !IsWeekend(t) }

// BusinessDays yields every business day in [start, end] in ascending order.
// The sequence is stateless and can be ranged over any number of times.
func BusinessDays(start, end time.Time) iter.Seq[time.Time] {
	from, to := Date(start), Date(end)
	return func(yield func(time.Time) bool) {
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			if IsWeekend(d) {
				continue
			}
			if !yield(d) {
				return
			}
		}
	}
}

// BusinessDayCount counts business days in [start, end]. A range that holds no
// business day still books one day, so the result is never below 1.
func BusinessDayCount(start, end time.Time) int {
	n := 0
	for range BusinessDays(start, end) {
		n++
	}
	if n == 0 {
		return 1
	}
	return n
}

// MonthBounds returns the first and last calendar day of a YYYY-MM token.
func MonthBounds(monthYear string) (time.Time, time.Time, error) {
	first, err := time.Parse("2006-01", monthYear)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	last := first.AddDate(0, 1, -1)
	return first, last, nil
}

// Overlaps reports whether [aStart, aEnd] and [bStart, bEnd] share a day.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !Date(aStart).After(Date(bEnd)) && !Date(aEnd).Before(Date(bStart))
}

// Clip narrows [start, end] to the window [from, to]. ok is false when they
// do not intersect.
func Clip(start, end, from, to time.Time) (time.Time, time.Time, bool) {
	if !Overlaps(start, end, from, to) {
		return time.Time{}, time.Time{}, false
	}
	s, e := Date(start), Date(end)
	if s.Before(Date(from)) {
		s = Date(from)
	}
	if e.After(Date(to)) {
		e = Date(to)
	}
	return s, e, true
}

// Package calendar answers "is this a working day?" against a weekend set and
// a composed holiday source, and counts working days over a date range.
package calendar

import (
	"time"

	"github.com/sadopc/timeanalytics/internal/period"
)

// DefaultWeekend is used when no usable weekend set is configured.
var DefaultWeekend = []time.Weekday{time.Saturday, time.Sunday}

// Weekend normalises a configured set of non-working weekdays. A nil set, or a
// set that covers every day of the week, yields DefaultWeekend. An empty
// non-nil set means no weekend at all.
func Weekend(days []time.Weekday) [7]bool {
	var set [7]bool
	n := 0
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday || set[d] {
			continue
		}
		set[d] = true
		n++
	}
	if days == nil || n == 7 {
		set = [7]bool{}
		for _, d := range DefaultWeekend {
			set[d] = true
		}
	}
	return set
}

// IsWorkingDay reports whether date is neither a weekend day nor a holiday.
// A nil holiday source matches nothing.
func IsWorkingDay(date time.Time, weekend []time.Weekday, holidays HolidaySource) bool {
	return NewOracle(weekend, holidays).IsWorkingDay(date)
}

// WorkingDayCount counts working days in r. Empty and inverted ranges count 0.
func WorkingDayCount(r period.Range, weekend []time.Weekday, holidays HolidaySource) int {
	return NewOracle(weekend, holidays).WorkingDays(r)
}

// Oracle is a fixed weekend set paired with a holiday source. It holds no
// mutable state and is safe for concurrent use if its source is.
type Oracle struct {
	weekend  [7]bool
	holidays HolidaySource
}

// NewOracle builds an oracle; weekend is normalised with Weekend.
func NewOracle(weekend []time.Weekday, holidays HolidaySource) *Oracle {
	return &Oracle{weekend: Weekend(weekend), holidays: holidays}
}

// IsWeekend reports whether date falls on a configured weekend day.
func (o *Oracle) IsWeekend(date time.Time) bool {
	return o.weekend[date.Weekday()]
}

// IsHoliday reports whether any holiday source matches date.
func (o *Oracle) IsHoliday(date time.Time) bool {
	return IsHoliday(o.holidays, date)
}

// IsWorkingDay reports whether date is neither a weekend day nor a holiday.
func (o *Oracle) IsWorkingDay(date time.Time) bool {
	d := period.Day(date)
	return !o.IsWeekend(d) && !o.IsHoliday(d)
}

// WorkingDays visits every date of r once and counts the working days.
func (o *Oracle) WorkingDays(r period.Range) int {
	n := 0
	r.Each(func(d time.Time) {
		if o.IsWorkingDay(d) {
			n++
		}
	})
	return n
}

// Holidays lists the distinct holidays in r that fall on otherwise working
// weekdays, in date order.
func (o *Oracle) Holidays(r period.Range) []Holiday {
	var out []Holiday
	for _, h := range Between(o.holidays, r) {
		if !o.IsWeekend(h.Date) {
			out = append(out, h)
		}
	}
	return out
}

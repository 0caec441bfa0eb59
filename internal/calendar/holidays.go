package calendar

import (
	"slices"
	"time"

	"github.com/sadopc/timeanalytics/internal/period"
)

// HolidaySource matches dates against one holiday calendar. Holiday returns
// the holiday's name when date is a holiday.
type HolidaySource interface {
	Holiday(date time.Time) (name string, ok bool)
}

// Holiday is a named holiday date.
type Holiday struct {
	Date time.Time
	Name string
}

// IsHoliday reports whether src matches date. A nil source matches nothing.
func IsHoliday(src HolidaySource, date time.Time) bool {
	if src == nil {
		return false
	}
	_, ok := src.Holiday(period.Day(date))
	return ok
}

// Between returns every date of r matched by src, once per date even when
// several sources overlap, in ascending order.
func Between(src HolidaySource, r period.Range) []Holiday {
	if src == nil {
		return nil
	}
	var out []Holiday
	r.Each(func(d time.Time) {
		if name, ok := src.Holiday(d); ok {
			out = append(out, Holiday{Date: d, Name: name})
		}
	})
	return out
}

// HolidayFunc adapts a plain predicate to HolidaySource.
type HolidayFunc func(date time.Time) bool

func (f HolidayFunc) Holiday(date time.Time) (string, bool) {
	if f(date) {
		return "Holiday", true
	}
	return "", false
}

type anyOf []HolidaySource

// AnyOf composes sources with OR. The first matching source names the day.
// Nil sources are skipped.
func AnyOf(sources ...HolidaySource) HolidaySource {
	var out anyOf
	for _, s := range sources {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (a anyOf) Holiday(date time.Time) (string, bool) {
	for _, s := range a {
		if name, ok := s.Holiday(date); ok {
			return name, true
		}
	}
	return "", false
}

// MonthDay is a date that recurs every year.
type MonthDay struct {
	Month time.Month
	Day   int
	Name  string
}

func (md MonthDay) matches(d time.Time) bool {
	return d.Month() == md.Month && d.Day() == md.Day
}

// Annual matches the same dates every year.
type Annual []MonthDay

func (a Annual) Holiday(date time.Time) (string, bool) {
	for _, md := range a {
		if md.matches(date) {
			return md.Name, true
		}
	}
	return "", false
}

// YearTable holds dates that move from year to year, listed per year. A year
// missing from the table matches nothing; dates are never extrapolated.
type YearTable map[int][]MonthDay

func (t YearTable) Holiday(date time.Time) (string, bool) {
	for _, md := range t[date.Year()] {
		if md.matches(date) {
			return md.Name, true
		}
	}
	return "", false
}

// Years lists the years the table knows about.
func (t YearTable) Years() []int {
	years := make([]int, 0, len(t))
	for y := range t {
		years = append(years, y)
	}
	slices.Sort(years)
	return years
}

// Span is an inclusive range of holiday dates, such as a company shutdown.
type Span struct {
	Name  string
	Start time.Time
	End   time.Time
}

// Spans matches any date inside one of its spans.
type Spans []Span

// Clip keeps only the parts of each span that fall within window, dropping
// spans that miss it entirely.
func (s Spans) Clip(window period.Range) Spans {
	var out Spans
	for _, sp := range s {
		r := period.Range{From: period.Day(sp.Start), To: period.Day(sp.End)}.Clip(window)
		if r.Empty() {
			continue
		}
		out = append(out, Span{Name: sp.Name, Start: r.From, End: r.To})
	}
	return out
}

func (s Spans) Holiday(date time.Time) (string, bool) {
	for _, sp := range s {
		if (period.Range{From: sp.Start, To: sp.End}).Contains(date) {
			return sp.Name, true
		}
	}
	return "", false
}

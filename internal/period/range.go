package period

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidDate   = errors.New("date must be in YYYY-MM-DD format")
	ErrUnknownPreset = errors.New("unknown date range preset")
)

// Range is an inclusive span of civil dates. A range with From after To is
// empty; it is not an error.
type Range struct {
	From time.Time
	To   time.Time
}

// NewRange normalises both ends to civil dates.
func NewRange(from, to time.Time) Range {
	return Range{From: Day(from), To: Day(to)}
}

// ParseRange parses two YYYY-MM-DD strings.
func ParseRange(from, to string) (Range, error) {
	f, err := ParseDate(from)
	if err != nil {
		return Range{}, err
	}
	t, err := ParseDate(to)
	if err != nil {
		return Range{}, err
	}
	return Range{From: f, To: t}, nil
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// Empty reports whether the range holds no dates.
func (r Range) Empty() bool { return r.From.After(r.To) }

// Days returns the number of calendar days in the range.
func (r Range) Days() int {
	if r.Empty() {
		return 0
	}
	return int(Day(r.To).Sub(Day(r.From)).Hours()/24) + 1
}

// Contains reports whether the civil date of t lies within r.
func (r Range) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(Day(r.From)) && !d.After(Day(r.To))
}

// Clip intersects r with o.
func (r Range) Clip(o Range) Range {
	out := r
	if o.From.After(out.From) {
		out.From = o.From
	}
	if o.To.Before(out.To) {
		out.To = o.To
	}
	return out
}

// Overlaps reports whether an interval starting at start and ending at end
// (nil end = open ended) intersects r.
func (r Range) Overlaps(start time.Time, end *time.Time) bool {
	if r.Empty() || Day(start).After(Day(r.To)) {
		return false
	}
	return end == nil || !Day(*end).Before(Day(r.From))
}

// Each calls fn for every date in r, in order.
func (r Range) Each(fn func(time.Time)) {
	if r.Empty() {
		return
	}
	last := Day(r.To)
	for d := Day(r.From); !d.After(last); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// String formats the range as "2025-01-01..2025-01-31".
func (r Range) String() string {
	return r.From.Format("2006-01-02") + ".." + r.To.Format("2006-01-02")
}

// Presets lists the names accepted by Preset.
var Presets = []string{
	"today", "this_week", "last_week", "last_7_days", "last_14_days",
	"this_month", "last_month", "last_3_months", "this_year",
}

// Preset resolves a named range relative to now. Weeks begin on weekStart.
func Preset(name string, now time.Time, weekStart time.Weekday) (Range, error) {
	today := Day(now)
	week := KeyFor(today, Weekly, weekStart)
	month := KeyFor(today, Monthly, weekStart)

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "today":
		return Range{From: today, To: today}, nil
	case "this_week":
		return Range{From: week.Start(), To: week.End()}, nil
	case "last_week":
		prev := KeyFor(today.AddDate(0, 0, -7), Weekly, weekStart)
		return Range{From: prev.Start(), To: prev.End()}, nil
	case "last_7_days":
		return Range{From: today.AddDate(0, 0, -6), To: today}, nil
	case "last_14_days":
		return Range{From: today.AddDate(0, 0, -13), To: today}, nil
	case "this_month":
		return Range{From: month.Start(), To: month.End()}, nil
	case "last_month":
		prev := KeyFor(month.Start().AddDate(0, 0, -1), Monthly, weekStart)
		return Range{From: prev.Start(), To: prev.End()}, nil
	case "last_3_months":
		return Range{From: month.Start().AddDate(0, -2, 0), To: month.End()}, nil
	case "this_year":
		return Range{From: Date(today.Year(), time.January, 1), To: Date(today.Year(), time.December, 31)}, nil
	}
	return Range{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

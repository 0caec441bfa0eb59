// Package period maps calendar dates to reporting buckets.
//
// A Key identifies one bucket (day, week, month or year). Every component that
// groups dates goes through KeyFor so that two dates land in the same bucket
// iff they share a Key.
package period

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrUnknownGranularity = errors.New("granularity must be one of daily, weekly, monthly, yearly")
	ErrUnknownWeekday     = errors.New("unknown weekday")
)

// Granularity selects the bucket size.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
	Yearly  Granularity = "yearly"
)

// Granularities lists the supported values in display order.
var Granularities = []Granularity{Daily, Weekly, Monthly, Yearly}

// ParseGranularity validates a user supplied granularity.
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(strings.ToLower(strings.TrimSpace(s)))
	switch g {
	case Daily, Weekly, Monthly, Yearly:
		return g, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGranularity, s)
}

var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday parses a weekday name ("monday", "Sun", ...).
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if wd, ok := weekdayMap[name]; ok {
		return wd, nil
	}
	if len(name) >= 3 {
		for full, wd := range weekdayMap {
			if strings.HasPrefix(full, name) {
				return wd, nil
			}
		}
	}
	return time.Sunday, fmt.Errorf("%w: %q", ErrUnknownWeekday, s)
}

// Day truncates t to midnight UTC of its civil date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Date builds a UTC civil date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Grouping is the explicit bucketing choice threaded through every
// aggregation call.
type Grouping struct {
	Granularity Granularity
	WeekStart   time.Weekday
}

// Key returns the bucket key of date under g.
func (g Grouping) Key(date time.Time) Key {
	return KeyFor(date, g.Granularity, g.WeekStart)
}

// Keys returns every bucket key from the bucket of r.From through the bucket
// of r.To, in ascending order. An empty range yields nil.
func (g Grouping) Keys(r Range) []Key {
	if r.Empty() {
		return nil
	}
	first := g.Key(r.From)
	last := g.Key(r.To)
	var keys []Key
	for k := first; !last.Before(k); k = k.Next() {
		keys = append(keys, k)
	}
	return keys
}

// Key is an opaque, totally ordered bucket identifier. Keys are comparable
// and can be used as map keys.
type Key struct {
	g     Granularity
	year  int
	month time.Month
	day   int
}

// KeyFor maps date to the bucket containing it. Weekly buckets begin on
// weekStart. Unknown granularities are treated as daily.
func KeyFor(date time.Time, g Granularity, weekStart time.Weekday) Key {
	d := Day(date)
	switch g {
	case Weekly:
		offset := (int(d.Weekday()) - int(weekStart) + 7) % 7
		d = d.AddDate(0, 0, -offset)
	case Monthly:
		d = Date(d.Year(), d.Month(), 1)
	case Yearly:
		d = Date(d.Year(), time.January, 1)
	default:
		g = Daily
	}
	return Key{g: g, year: d.Year(), month: d.Month(), day: d.Day()}
}

// Granularity reports the granularity the key was derived with.
func (k Key) Granularity() Granularity { return k.g }

// IsZero reports whether k is the zero Key.
func (k Key) IsZero() bool { return k.g == "" }

// Start returns the first day of the bucket.
func (k Key) Start() time.Time { return Date(k.year, k.month, k.day) }

// End returns the last day of the bucket.
func (k Key) End() time.Time { return k.Next().Start().AddDate(0, 0, -1) }

// Next returns the key of the following bucket.
func (k Key) Next() Key {
	s := k.Start()
	switch k.g {
	case Weekly:
		s = s.AddDate(0, 0, 7)
	case Monthly:
		s = s.AddDate(0, 1, 0)
	case Yearly:
		s = s.AddDate(1, 0, 0)
	default:
		s = s.AddDate(0, 0, 1)
	}
	return Key{g: k.g, year: s.Year(), month: s.Month(), day: s.Day()}
}

// Compare returns -1, 0 or +1 ordering keys chronologically.
func (k Key) Compare(o Key) int {
	switch {
	case k.year != o.year:
		return cmpInt(k.year, o.year)
	case k.month != o.month:
		return cmpInt(int(k.month), int(o.month))
	default:
		return cmpInt(k.day, o.day)
	}
}

// Before reports whether k sorts before o.
func (k Key) Before(o Key) bool { return k.Compare(o) < 0 }

// String returns the canonical form: 2025-01-06 (daily, weekly),
// 2025-01 (monthly) or 2025 (yearly).
func (k Key) String() string {
	switch k.g {
	case Monthly:
		return fmt.Sprintf("%04d-%02d", k.year, int(k.month))
	case Yearly:
		return fmt.Sprintf("%04d", k.year)
	default:
		return k.Start().Format("2006-01-02")
	}
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

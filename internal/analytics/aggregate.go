package analytics

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/sadopc/timeanalytics/internal/period"
)

// Bucket is the rollup of every record sharing one period key.
type Bucket struct {
	Key        period.Key
	Hours      decimal.Decimal
	ActorCount int
	EntryCount int
}

// Buckets is kept in ascending key order unless Sorted says otherwise.
type Buckets []Bucket

// Order selects the direction of a bucket listing.
type Order int

const (
	Ascending Order = iota
	Descending
)

// Aggregate groups records by period key and returns the buckets that have
// at least one record, in ascending key order.
func Aggregate(records []Record, g period.Grouping) Buckets {
	type acc struct {
		hours   decimal.Decimal
		actors  map[int64]struct{}
		entries int
	}
	byKey := make(map[period.Key]*acc)
	var keys []period.Key
	for _, r := range records {
		k := g.Key(r.Date)
		a, ok := byKey[k]
		if !ok {
			a = &acc{hours: decimal.Zero, actors: make(map[int64]struct{})}
			byKey[k] = a
			keys = append(keys, k)
		}
		a.hours = a.hours.Add(r.Hours)
		a.actors[r.ActorID] = struct{}{}
		a.entries++
	}

	slices.SortFunc(keys, period.Key.Compare)
	out := make(Buckets, 0, len(keys))
	for _, k := range keys {
		a := byKey[k]
		out = append(out, Bucket{Key: k, Hours: a.hours, ActorCount: len(a.actors), EntryCount: a.entries})
	}
	return out
}

// FillGaps returns exactly one bucket per period key of r, in ascending
// order. Keys without a matching input bucket get a zero bucket; input
// buckets outside r are dropped.
func FillGaps(buckets Buckets, r period.Range, g period.Grouping) Buckets {
	keys := g.Keys(r)
	if len(keys) == 0 {
		return Buckets{}
	}
	have := make(map[period.Key]Bucket, len(buckets))
	for _, b := range buckets {
		have[b.Key] = b
	}
	out := make(Buckets, 0, len(keys))
	for _, k := range keys {
		b, ok := have[k]
		if !ok {
			b = Bucket{Key: k, Hours: decimal.Zero}
		}
		out = append(out, b)
	}
	return out
}

// Sorted returns a copy ordered by key in the given direction.
func (b Buckets) Sorted(o Order) Buckets {
	out := slices.Clone(b)
	slices.SortStableFunc(out, func(x, y Bucket) int {
		if o == Descending {
			return y.Key.Compare(x.Key)
		}
		return x.Key.Compare(y.Key)
	})
	return out
}

// Total sums the hours of every bucket.
func (b Buckets) Total() decimal.Decimal {
	total := decimal.Zero
	for _, x := range b {
		total = total.Add(x.Hours)
	}
	return total
}

// Stats summarises a bucket series.
type Stats struct {
	Sum         decimal.Decimal
	Average     decimal.Decimal
	Min         decimal.Decimal
	Max         decimal.Decimal
	Divisor     int
	WorkingDays int
}

// Summarize computes sum, average, min and max over buckets. For daily
// granularity the average divides by workingDays; otherwise by the number of
// buckets. A zero divisor yields a zero average. Averages round to 2 places.
func Summarize(buckets Buckets, g period.Granularity, workingDays int) Stats {
	s := Stats{Sum: decimal.Zero, Average: decimal.Zero, Min: decimal.Zero, Max: decimal.Zero, WorkingDays: workingDays}
	for i, b := range buckets {
		s.Sum = s.Sum.Add(b.Hours)
		if i == 0 || b.Hours.LessThan(s.Min) {
			s.Min = b.Hours
		}
		if i == 0 || b.Hours.GreaterThan(s.Max) {
			s.Max = b.Hours
		}
	}
	s.Divisor = len(buckets)
	if g == period.Daily {
		s.Divisor = workingDays
	}
	if s.Divisor > 0 {
		s.Average = s.Sum.Div(decimal.NewFromInt(int64(s.Divisor))).Round(2)
	}
	return s
}

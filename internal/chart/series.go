// Package chart turns aggregate and pivot results into renderer-neutral
// series and payloads for bar, line and pie charts.
package chart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sadopc/timeanalytics/internal/analytics"
	"github.com/sadopc/timeanalytics/internal/period"
)

// Series is one labelled sequence of values. Labels, Values and Tooltips
// (when present) always have the same length.
type Series struct {
	Name     string
	Labels   []string
	Values   []decimal.Decimal
	Tooltips []string
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.Values) }

// Total sums the values.
func (s Series) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range s.Values {
		total = total.Add(v)
	}
	return total
}

// FromBuckets builds a series with one point per bucket, labelled with
// period.Label. Weekly buckets carry a tooltip with their dates clipped to r.
func FromBuckets(name string, buckets analytics.Buckets, r period.Range) Series {
	s := Series{
		Name:   name,
		Labels: make([]string, len(buckets)),
		Values: make([]decimal.Decimal, len(buckets)),
	}
	for i, b := range buckets {
		s.Labels[i] = period.Label(b.Key)
		s.Values[i] = b.Hours
		if b.Key.Granularity() == period.Weekly {
			if s.Tooltips == nil {
				s.Tooltips = make([]string, len(buckets))
			}
			s.Tooltips[i] = period.Tooltip(b.Key, r)
		}
	}
	return s
}

// FromRows builds a series from labelled rows such as a pivot summary.
func FromRows(name string, rows []analytics.Row) Series {
	s := Series{
		Name:   name,
		Labels: make([]string, len(rows)),
		Values: make([]decimal.Decimal, len(rows)),
	}
	for i, r := range rows {
		s.Labels[i] = r.Label
		s.Values[i] = r.Hours
	}
	return s
}

// FromPivot builds one series per dimension value across the pivot's
// periods, for stacked or grouped charts.
func FromPivot(p *analytics.Pivot, r period.Range) []Series {
	axis := FromBuckets("", p.PeriodBuckets(), r)
	out := make([]Series, 0, len(p.Values))
	for _, v := range p.Values {
		s := Series{Name: v, Labels: axis.Labels, Tooltips: axis.Tooltips, Values: make([]decimal.Decimal, len(p.Periods))}
		for i, k := range p.Periods {
			s.Values[i] = p.Cell(k, v)
		}
		out = append(out, s)
	}
	return out
}

var hundred = decimal.NewFromInt(100)

// Percentages returns each value's share of the total, rounded to one
// decimal place. A zero total yields all zeros.
func Percentages(values []decimal.Decimal) []decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		if total.IsZero() {
			out[i] = decimal.Zero
			continue
		}
		out[i] = v.Div(total).Mul(hundred).Round(1)
	}
	return out
}

// ProportionalLabels appends the share and hours to each label, for example
// "Development (62.5%, 5.0h)".
func ProportionalLabels(s Series) []string {
	pct := Percentages(s.Values)
	out := make([]string, len(s.Labels))
	for i, label := range s.Labels {
		out[i] = fmt.Sprintf("%s (%s%%, %sh)", label, pct[i].StringFixed(1), s.Values[i].StringFixed(1))
	}
	return out
}

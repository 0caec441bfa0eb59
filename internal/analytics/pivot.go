package analytics

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/sadopc/timeanalytics/internal/period"
)

type cell struct {
	key   period.Key
	value string
}

// Pivot is a period x dimension matrix of hours. Every total is derived
// from the cells on demand.
type Pivot struct {
	Dimension string
	Grouping  period.Grouping
	Periods   []period.Key
	Values    []string

	cells map[cell]decimal.Decimal
}

// Row is one line of a summary or detailed rendering.
type Row struct {
	Label string
	Hours decimal.Decimal
}

// PeriodRow is one period of the detailed rendering. Cells line up with
// Pivot.Values.
type PeriodRow struct {
	Key   period.Key
	Cells []decimal.Decimal
	Total decimal.Decimal
}

// BuildPivot tabulates records by period and dim. Values are ordered by
// descending total; equal totals keep the order in which they were first
// seen. Periods ascend and only include keys with records.
func BuildPivot(records []Record, g period.Grouping, dim Dimension) *Pivot {
	p := &Pivot{Dimension: dim.Name, Grouping: g, cells: make(map[cell]decimal.Decimal)}
	seenKey := make(map[period.Key]bool)
	seenValue := make(map[string]bool)

	for _, r := range records {
		k := g.Key(r.Date)
		v := dim.Of(r)
		if !seenKey[k] {
			seenKey[k] = true
			p.Periods = append(p.Periods, k)
		}
		if !seenValue[v] {
			seenValue[v] = true
			p.Values = append(p.Values, v)
		}
		c := cell{key: k, value: v}
		p.cells[c] = p.Cell(k, v).Add(r.Hours)
	}

	slices.SortFunc(p.Periods, period.Key.Compare)
	totals := make(map[string]decimal.Decimal, len(p.Values))
	for _, v := range p.Values {
		totals[v] = p.ValueTotal(v)
	}
	slices.SortStableFunc(p.Values, func(a, b string) int {
		return totals[b].Cmp(totals[a])
	})
	return p
}

// Cell returns the hours at (k, value); absent cells read as zero.
func (p *Pivot) Cell(k period.Key, value string) decimal.Decimal {
	if h, ok := p.cells[cell{key: k, value: value}]; ok {
		return h
	}
	return decimal.Zero
}

// ValueTotal sums one dimension value across all periods.
func (p *Pivot) ValueTotal(value string) decimal.Decimal {
	total := decimal.Zero
	for _, k := range p.Periods {
		total = total.Add(p.Cell(k, value))
	}
	return total
}

// PeriodTotal sums one period across all dimension values.
func (p *Pivot) PeriodTotal(k period.Key) decimal.Decimal {
	total := decimal.Zero
	for _, v := range p.Values {
		total = total.Add(p.Cell(k, v))
	}
	return total
}

// GrandTotal sums every cell.
func (p *Pivot) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, k := range p.Periods {
		total = total.Add(p.PeriodTotal(k))
	}
	return total
}

// ValueTotals lists dimension totals in Values order.
func (p *Pivot) ValueTotals() []decimal.Decimal {
	out := make([]decimal.Decimal, len(p.Values))
	for i, v := range p.Values {
		out[i] = p.ValueTotal(v)
	}
	return out
}

// PeriodTotals lists period totals in Periods order.
func (p *Pivot) PeriodTotals() []decimal.Decimal {
	out := make([]decimal.Decimal, len(p.Periods))
	for i, k := range p.Periods {
		out[i] = p.PeriodTotal(k)
	}
	return out
}

// Summary collapses the periods: one row per dimension value.
func (p *Pivot) Summary() []Row {
	rows := make([]Row, len(p.Values))
	for i, v := range p.Values {
		rows[i] = Row{Label: v, Hours: p.ValueTotal(v)}
	}
	return rows
}

// Detailed lists one row per period, in the requested order.
func (p *Pivot) Detailed(o Order) []PeriodRow {
	rows := make([]PeriodRow, 0, len(p.Periods))
	for _, k := range p.Periods {
		cells := make([]decimal.Decimal, len(p.Values))
		for i, v := range p.Values {
			cells[i] = p.Cell(k, v)
		}
		rows = append(rows, PeriodRow{Key: k, Cells: cells, Total: p.PeriodTotal(k)})
	}
	if o == Descending {
		slices.Reverse(rows)
	}
	return rows
}

// PeriodBuckets views the period totals as buckets so the aggregate helpers
// and chart builders can consume them.
func (p *Pivot) PeriodBuckets() Buckets {
	out := make(Buckets, len(p.Periods))
	for i, k := range p.Periods {
		out[i] = Bucket{Key: k, Hours: p.PeriodTotal(k)}
	}
	return out
}

// FillGaps returns a copy whose periods cover every key of r. Cells outside
// r are dropped; values are kept in their original order.
func (p *Pivot) FillGaps(r period.Range) *Pivot {
	out := &Pivot{
		Dimension: p.Dimension,
		Grouping:  p.Grouping,
		Periods:   p.Grouping.Keys(r),
		Values:    slices.Clone(p.Values),
		cells:     make(map[cell]decimal.Decimal),
	}
	in := make(map[period.Key]bool, len(out.Periods))
	for _, k := range out.Periods {
		in[k] = true
	}
	for c, h := range p.cells {
		if in[c.key] {
			out.cells[c] = h
		}
	}
	return out
}

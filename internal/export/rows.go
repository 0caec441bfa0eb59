package export

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/sadopc/timeanalytics/internal/analytics"
	"github.com/sadopc/timeanalytics/internal/period"
)

// Placeholders for missing optional values.
const (
	Missing     = "-"
	NotAssigned = "N/A"
	TotalLabel  = "TOTAL"
)

// Table is a header plus rows, ready to be written as CSV or JSON.
type Table struct {
	Header []string
	Rows   [][]string
}

func hours(d decimal.Decimal) string { return d.StringFixed(2) }

func orElse(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// EntryRows lists one row per record followed by a blank row and a TOTAL row.
// Missing activity, issue and comment render as "-".
func EntryRows(records []analytics.Record, dir analytics.Directory) Table {
	t := Table{Header: []string{"Date", "Project", "Activity", "Issue", "Comment", "Hours"}}
	for _, r := range records {
		issue := Missing
		if r.IssueID != nil {
			issue = fmt.Sprintf("#%d: %s", *r.IssueID, dir.IssueSubject(r.IssueID))
		}
		t.Rows = append(t.Rows, []string{
			r.Date.Format("2006-01-02"),
			orElse(dir.ProjectName(r.ProjectID), analytics.NoProject),
			orElse(dir.ActivityName(r.ActivityID), Missing),
			issue,
			orElse(r.Comment, Missing),
			hours(r.Hours),
		})
	}
	t.Rows = append(t.Rows, []string{}, []string{TotalLabel, "", "", "", "", hours(analytics.TotalHours(records))})
	return t
}

// TeamEntryRows lists a team's records with the team name on every row and a
// trailing TOTAL row. Missing issue and activity render as "N/A".
func TeamEntryRows(team string, records []analytics.Record, dir analytics.Directory) Table {
	t := Table{Header: []string{"Team", "Date", "Member", "Project", "Issue", "Activity", "Hours", "Comments"}}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{
			team,
			r.Date.Format("2006-01-02"),
			orElse(dir.ActorName(r.ActorID), analytics.UnknownMember),
			orElse(dir.ProjectName(r.ProjectID), analytics.NoProject),
			orElse(dir.IssueSubject(r.IssueID), NotAssigned),
			orElse(dir.ActivityName(r.ActivityID), NotAssigned),
			hours(r.Hours),
			r.Comment,
		})
	}
	t.Rows = append(t.Rows, []string{}, []string{TotalLabel, "", "", "", "", "", hours(analytics.TotalHours(records)), ""})
	return t
}

// BucketRows lists one row per bucket with its label, hours, distinct
// members and entry count, then a TOTAL row.
func BucketRows(buckets analytics.Buckets) Table {
	t := Table{Header: []string{"Period", "Hours", "Members", "Entries"}}
	entries := 0
	for _, b := range buckets {
		entries += b.EntryCount
		t.Rows = append(t.Rows, []string{
			period.Label(b.Key),
			hours(b.Hours),
			strconv.Itoa(b.ActorCount),
			strconv.Itoa(b.EntryCount),
		})
	}
	t.Rows = append(t.Rows, []string{}, []string{TotalLabel, hours(buckets.Total()), "", strconv.Itoa(entries)})
	return t
}

// SummaryRows lists one row per dimension value, then a TOTAL row. The
// first column is named after the dimension, e.g. "Activity".
func SummaryRows(dimension string, rows []analytics.Row) Table {
	t := Table{Header: []string{title(dimension), "Total Hours"}}
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Hours)
		t.Rows = append(t.Rows, []string{r.Label, hours(r.Hours)})
	}
	t.Rows = append(t.Rows, []string{}, []string{TotalLabel, hours(total)})
	return t
}

// PivotRows renders the detailed matrix: one row per period with a column
// per dimension value and a row total, then a TOTAL row of column totals.
func PivotRows(p *analytics.Pivot) Table {
	header := append([]string{"Period"}, p.Values...)
	t := Table{Header: append(header, "Total")}
	for _, row := range p.Detailed(analytics.Ascending) {
		line := []string{period.Label(row.Key)}
		for _, c := range row.Cells {
			line = append(line, hours(c))
		}
		t.Rows = append(t.Rows, append(line, hours(row.Total)))
	}
	totals := []string{TotalLabel}
	for _, v := range p.ValueTotals() {
		totals = append(totals, hours(v))
	}
	t.Rows = append(t.Rows, append(totals, hours(p.GrandTotal())))
	return t
}

func title(s string) string {
	if s == "" {
		return "Name"
	}
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}

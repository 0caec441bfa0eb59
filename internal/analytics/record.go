// Package analytics groups time records into period buckets and pivot tables.
//
// Everything here is a pure function over already-fetched records: no storage
// access, no logging and no shared state between calls.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one time entry as seen by the reporting core.
type Record struct {
	Date       time.Time
	Hours      decimal.Decimal
	ActorID    int64
	ProjectID  int64
	ActivityID *int64
	IssueID    *int64
	Comment    string
}

// Directory resolves ids to display names for labelling.
type Directory struct {
	Actors     map[int64]string
	Projects   map[int64]string
	Activities map[int64]string
	Issues     map[int64]string
}

// ActorName returns the actor's display name, or "" when unknown.
func (d Directory) ActorName(id int64) string { return d.Actors[id] }

// ProjectName returns the project's name, or "" when unknown.
func (d Directory) ProjectName(id int64) string { return d.Projects[id] }

// ActivityName returns the activity name for an optional id.
func (d Directory) ActivityName(id *int64) string {
	if id == nil {
		return ""
	}
	return d.Activities[*id]
}

// IssueSubject returns the issue subject for an optional id.
func (d Directory) IssueSubject(id *int64) string {
	if id == nil {
		return ""
	}
	return d.Issues[*id]
}

// TotalHours sums the hours of records.
func TotalHours(records []Record) decimal.Decimal {
	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Hours)
	}
	return total
}

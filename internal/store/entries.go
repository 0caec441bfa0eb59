package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNegativeHours rejects entries with less than zero hours.
var ErrNegativeHours = errors.New("hours must not be negative")

const entryColumns = `id, user_id, project_id, activity_id, issue_id, spent_on, hours, comments, created_at`

// LogEntry records time spent by a user on a project.
func (s *Store) LogEntry(e NewEntry) (*TimeEntry, error) {
	if e.Hours.IsNegative() {
		return nil, ErrNegativeHours
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO time_entries (user_id, project_id, activity_id, issue_id, spent_on, hours, comments, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.ProjectID, e.ActivityID, e.IssueID, formatDate(e.SpentOn), e.Hours.String(), e.Comments, now,
	)
	if err != nil {
		return nil, fmt.Errorf("log entry: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetEntry(id)
}

func (s *Store) GetEntry(id int64) (*TimeEntry, error) {
	row := s.db.QueryRow(`SELECT `+entryColumns+` FROM time_entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err != nil {
		return nil, fmt.Errorf("get entry %d: %w", id, err)
	}
	return e, nil
}

func (s *Store) DeleteEntry(id int64) error {
	_, err := s.db.Exec(`DELETE FROM time_entries WHERE id = ?`, id)
	return err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (*TimeEntry, error) {
	e := &TimeEntry{}
	var spentOn, hours, createdAt string
	var activityID, issueID sql.NullInt64
	err := sc.Scan(&e.ID, &e.UserID, &e.ProjectID, &activityID, &issueID, &spentOn, &hours, &e.Comments, &createdAt)
	if err != nil {
		return nil, err
	}
	if activityID.Valid {
		e.ActivityID = &activityID.Int64
	}
	if issueID.Valid {
		e.IssueID = &issueID.Int64
	}
	e.SpentOn = parseDate(spentOn)
	e.Hours, err = decimal.NewFromString(hours)
	if err != nil {
		return nil, fmt.Errorf("parse hours %q: %w", hours, err)
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return e, nil
}

// ListEntries returns entries matching f, oldest first. Every value is bound
// as a query parameter.
func (s *Store) ListEntries(f EntryFilter) ([]TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entries WHERE 1=1`
	var args []any

	if len(f.UserIDs) > 0 {
		in, inArgs := inClause(f.UserIDs)
		query += ` AND user_id IN ` + in
		args = append(args, inArgs...)
	}
	if len(f.ProjectIDs) > 0 {
		in, inArgs := inClause(f.ProjectIDs)
		query += ` AND project_id IN ` + in
		args = append(args, inArgs...)
	}
	if f.From != nil {
		query += ` AND spent_on >= ?`
		args = append(args, formatDate(*f.From))
	}
	if f.To != nil {
		query += ` AND spent_on <= ?`
		args = append(args, formatDate(*f.To))
	}
	query += ` ORDER BY spent_on, id`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []TimeEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

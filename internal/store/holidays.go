package store

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidHolidayRange rejects holidays that end before they start.
var ErrInvalidHolidayRange = errors.New("holiday end date is before its start date")

const holidayColumns = `id, name, start_date, end_date, description, active, created_at`

func (s *Store) CreateHoliday(name string, start, end time.Time, description string) (*CustomHoliday, error) {
	if end.Before(start) {
		return nil, ErrInvalidHolidayRange
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO custom_holidays (name, start_date, end_date, description, created_at) VALUES (?, ?, ?, ?, ?)`,
		name, formatDate(start), formatDate(end), description, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert holiday: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetHoliday(id)
}

func (s *Store) GetHoliday(id int64) (*CustomHoliday, error) {
	h, err := scanHoliday(s.db.QueryRow(`SELECT `+holidayColumns+` FROM custom_holidays WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get holiday %d: %w", id, err)
	}
	return h, nil
}

// SetHolidayActive enables or disables a holiday without deleting it.
func (s *Store) SetHolidayActive(id int64, active bool) error {
	v := 0
	if active {
		v = 1
	}
	res, err := s.db.Exec(`UPDATE custom_holidays SET active = ? WHERE id = ?`, v, id)
	if err != nil {
		return fmt.Errorf("update holiday %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update holiday %d: not found", id)
	}
	return nil
}

// ListHolidays returns holidays ordered by start date.
func (s *Store) ListHolidays(includeInactive bool) ([]CustomHoliday, error) {
	query := `SELECT ` + holidayColumns + ` FROM custom_holidays`
	if !includeInactive {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY start_date, id`
	return s.queryHolidays(query)
}

// ActiveHolidays returns active holidays overlapping [from, to].
func (s *Store) ActiveHolidays(from, to time.Time) ([]CustomHoliday, error) {
	return s.queryHolidays(
		`SELECT `+holidayColumns+` FROM custom_holidays
		 WHERE active = 1 AND start_date <= ? AND end_date >= ?
		 ORDER BY start_date, id`,
		formatDate(to), formatDate(from),
	)
}

func (s *Store) queryHolidays(query string, args ...any) ([]CustomHoliday, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []CustomHoliday
	for rows.Next() {
		h, err := scanHoliday(rows)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, *h)
	}
	return holidays, rows.Err()
}

func scanHoliday(sc scanner) (*CustomHoliday, error) {
	h := &CustomHoliday{}
	var start, end, createdAt string
	var active int
	if err := sc.Scan(&h.ID, &h.Name, &start, &end, &h.Description, &active, &createdAt); err != nil {
		return nil, err
	}
	h.StartDate = parseDate(start)
	h.EndDate = parseDate(end)
	h.Active = active == 1
	h.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return h, nil
}

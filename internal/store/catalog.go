package store

import (
	"database/sql"
	"fmt"
	"time"
)

// ============================================================
// Users
// ============================================================

func (s *Store) CreateUser(login, name string) (*User, error) {
	res, err := s.db.Exec(`INSERT INTO users (login, name) VALUES (?, ?)`, login, name)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetUser(id)
}

func (s *Store) GetUser(id int64) (*User, error) {
	return s.scanUser(`SELECT id, login, name, active, created_at FROM users WHERE id = ?`, id)
}

func (s *Store) GetUserByLogin(login string) (*User, error) {
	return s.scanUser(`SELECT id, login, name, active, created_at FROM users WHERE login = ?`, login)
}

func (s *Store) scanUser(query string, arg any) (*User, error) {
	u := &User{}
	var active int
	var createdAt string
	if err := s.db.QueryRow(query, arg).Scan(&u.ID, &u.Login, &u.Name, &active, &createdAt); err != nil {
		return nil, fmt.Errorf("get user %v: %w", arg, err)
	}
	u.Active = active == 1
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return u, nil
}

func (s *Store) ListUsers() ([]User, error) {
	rows, err := s.db.Query(`SELECT id, login, name, active, created_at FROM users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		var active int
		var createdAt string
		if err := rows.Scan(&u.ID, &u.Login, &u.Name, &active, &createdAt); err != nil {
			return nil, err
		}
		u.Active = active == 1
		u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		users = append(users, u)
	}
	return users, rows.Err()
}

// ============================================================
// Activities
// ============================================================

func (s *Store) CreateActivity(name string) (*Activity, error) {
	res, err := s.db.Exec(`INSERT INTO activities (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("insert activity: %w", err)
	}
	id, _ := res.LastInsertId()
	return &Activity{ID: id, Name: name, Active: true}, nil
}

func (s *Store) GetActivityByName(name string) (*Activity, error) {
	a := &Activity{}
	var active int
	err := s.db.QueryRow(`SELECT id, name, active FROM activities WHERE name = ?`, name).Scan(&a.ID, &a.Name, &active)
	if err != nil {
		return nil, fmt.Errorf("get activity %q: %w", name, err)
	}
	a.Active = active == 1
	return a, nil
}

func (s *Store) ListActivities() ([]Activity, error) {
	rows, err := s.db.Query(`SELECT id, name, active FROM activities ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var a Activity
		var active int
		if err := rows.Scan(&a.ID, &a.Name, &active); err != nil {
			return nil, err
		}
		a.Active = active == 1
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// ============================================================
// Issues
// ============================================================

func (s *Store) CreateIssue(projectID int64, subject string) (*Issue, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO issues (project_id, subject, created_at) VALUES (?, ?, ?)`,
		projectID, subject, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert issue: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetIssue(id)
}

func (s *Store) GetIssue(id int64) (*Issue, error) {
	i := &Issue{}
	var createdAt string
	err := s.db.QueryRow(
		`SELECT id, project_id, subject, created_at FROM issues WHERE id = ?`, id,
	).Scan(&i.ID, &i.ProjectID, &i.Subject, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("get issue %d: %w", id, err)
	}
	i.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return i, nil
}

// ============================================================
// Names
// ============================================================

// Names loads the display name of every user, project, activity and issue.
func (s *Store) Names() (*Names, error) {
	n := &Names{}
	var err error
	if n.Users, err = s.nameMap(`SELECT id, name FROM users`); err != nil {
		return nil, fmt.Errorf("user names: %w", err)
	}
	if n.Projects, err = s.nameMap(`SELECT id, name FROM projects`); err != nil {
		return nil, fmt.Errorf("project names: %w", err)
	}
	if n.Activities, err = s.nameMap(`SELECT id, name FROM activities`); err != nil {
		return nil, fmt.Errorf("activity names: %w", err)
	}
	if n.Issues, err = s.nameMap(`SELECT id, subject FROM issues`); err != nil {
		return nil, fmt.Errorf("issue subjects: %w", err)
	}
	return n, nil
}

func (s *Store) nameMap(query string) (map[int64]string, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64]string)
	for rows.Next() {
		var id int64
		var name sql.NullString
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name.String
	}
	return out, rows.Err()
}

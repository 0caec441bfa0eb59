package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidRole rejects membership roles other than lead and member.
var ErrInvalidRole = errors.New("role must be lead or member")

func (s *Store) CreateTeam(name, description string) (*Team, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO teams (name, description, created_at) VALUES (?, ?, ?)`, name, description, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert team: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetTeam(id)
}

func (s *Store) GetTeam(id int64) (*Team, error) {
	return s.scanTeam(`SELECT id, name, description, active, created_at FROM teams WHERE id = ?`, id)
}

func (s *Store) GetTeamByName(name string) (*Team, error) {
	return s.scanTeam(`SELECT id, name, description, active, created_at FROM teams WHERE name = ?`, name)
}

func (s *Store) scanTeam(query string, arg any) (*Team, error) {
	t := &Team{}
	var active int
	var createdAt string
	if err := s.db.QueryRow(query, arg).Scan(&t.ID, &t.Name, &t.Description, &active, &createdAt); err != nil {
		return nil, fmt.Errorf("get team %v: %w", arg, err)
	}
	t.Active = active == 1
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return t, nil
}

func (s *Store) ListTeams() ([]Team, error) {
	rows, err := s.db.Query(`SELECT id, name, description, active, created_at FROM teams ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		var active int
		var createdAt string
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &active, &createdAt); err != nil {
			return nil, err
		}
		t.Active = active == 1
		t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// ============================================================
// Memberships
// ============================================================

// AddMember adds userID to a team from start until end (nil = open ended).
func (s *Store) AddMember(teamID, userID int64, role string, start time.Time, end *time.Time) (*TeamMembership, error) {
	if role != RoleLead && role != RoleMember {
		return nil, ErrInvalidRole
	}
	res, err := s.db.Exec(
		`INSERT INTO team_memberships (team_id, user_id, role, start_date, end_date) VALUES (?, ?, ?, ?, ?)`,
		teamID, userID, role, formatDate(start), formatOptionalDate(end),
	)
	if err != nil {
		return nil, fmt.Errorf("insert membership: %w", err)
	}
	id, _ := res.LastInsertId()
	return &TeamMembership{ID: id, TeamID: teamID, UserID: userID, Role: role, StartDate: parseDate(formatDate(start)), EndDate: end}, nil
}

// EndMembership closes an open membership on end.
func (s *Store) EndMembership(id int64, end time.Time) error {
	_, err := s.db.Exec(`UPDATE team_memberships SET end_date = ? WHERE id = ?`, formatDate(end), id)
	if err != nil {
		return fmt.Errorf("end membership %d: %w", id, err)
	}
	return nil
}

func (s *Store) ListMemberships(teamID int64) ([]TeamMembership, error) {
	rows, err := s.db.Query(
		`SELECT id, team_id, user_id, role, start_date, end_date FROM team_memberships
		 WHERE team_id = ? ORDER BY start_date, id`, teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()

	var out []TeamMembership
	for rows.Next() {
		var m TeamMembership
		var start string
		var end sql.NullString
		if err := rows.Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role, &start, &end); err != nil {
			return nil, err
		}
		m.StartDate = parseDate(start)
		m.EndDate = parseOptionalDate(end)
		out = append(out, m)
	}
	return out, rows.Err()
}

// ============================================================
// Projects
// ============================================================

// AssignProject links a project to a team from start until end (nil = open).
func (s *Store) AssignProject(teamID, projectID int64, start time.Time, end *time.Time) (*TeamProject, error) {
	res, err := s.db.Exec(
		`INSERT INTO team_projects (team_id, project_id, start_date, end_date) VALUES (?, ?, ?, ?)`,
		teamID, projectID, formatDate(start), formatOptionalDate(end),
	)
	if err != nil {
		return nil, fmt.Errorf("assign project: %w", err)
	}
	id, _ := res.LastInsertId()
	return &TeamProject{ID: id, TeamID: teamID, ProjectID: projectID, StartDate: parseDate(formatDate(start)), EndDate: end}, nil
}

func (s *Store) ListTeamProjects(teamID int64) ([]TeamProject, error) {
	rows, err := s.db.Query(
		`SELECT id, team_id, project_id, start_date, end_date FROM team_projects
		 WHERE team_id = ? ORDER BY start_date, id`, teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("list team projects: %w", err)
	}
	defer rows.Close()

	var out []TeamProject
	for rows.Next() {
		var p TeamProject
		var start string
		var end sql.NullString
		if err := rows.Scan(&p.ID, &p.TeamID, &p.ProjectID, &start, &end); err != nil {
			return nil, err
		}
		p.StartDate = parseDate(start)
		p.EndDate = parseOptionalDate(end)
		out = append(out, p)
	}
	return out, rows.Err()
}

// ============================================================
// Exclusions
// ============================================================

// ExcludeUser keeps userID out of the team's reports. Excluding twice is a no-op.
func (s *Store) ExcludeUser(teamID, userID int64) error {
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO team_settings (team_id, excluded_user_id) VALUES (?, ?)`, teamID, userID,
	)
	if err != nil {
		return fmt.Errorf("exclude user %d: %w", userID, err)
	}
	return nil
}

func (s *Store) IncludeUser(teamID, userID int64) error {
	_, err := s.db.Exec(
		`DELETE FROM team_settings WHERE team_id = ? AND excluded_user_id = ?`, teamID, userID,
	)
	return err
}

func (s *Store) ExcludedUsers(teamID int64) ([]int64, error) {
	rows, err := s.db.Query(
		`SELECT excluded_user_id FROM team_settings WHERE team_id = ? ORDER BY excluded_user_id`, teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("list excluded users: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

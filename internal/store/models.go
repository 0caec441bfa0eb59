package store

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        int64
	Login     string
	Name      string
	Active    bool
	CreatedAt time.Time
}

type Project struct {
	ID        int64
	Name      string
	Color     string
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Activity struct {
	ID     int64
	Name   string
	Active bool
}

type Issue struct {
	ID        int64
	ProjectID int64
	Subject   string
	CreatedAt time.Time
}

type TimeEntry struct {
	ID         int64
	UserID     int64
	ProjectID  int64
	ActivityID *int64
	IssueID    *int64
	SpentOn    time.Time // civil date, UTC midnight
	Hours      decimal.Decimal
	Comments   string
	CreatedAt  time.Time
}

// NewEntry is the input for LogEntry.
type NewEntry struct {
	UserID     int64
	ProjectID  int64
	ActivityID *int64
	IssueID    *int64
	SpentOn    time.Time
	Hours      decimal.Decimal
	Comments   string
}

type CustomHoliday struct {
	ID          int64
	Name        string
	StartDate   time.Time
	EndDate     time.Time
	Description string
	Active      bool
	CreatedAt   time.Time
}

type Team struct {
	ID          int64
	Name        string
	Description string
	Active      bool
	CreatedAt   time.Time
}

// Membership roles.
const (
	RoleLead   = "lead"
	RoleMember = "member"
)

type TeamMembership struct {
	ID        int64
	TeamID    int64
	UserID    int64
	Role      string
	StartDate time.Time
	EndDate   *time.Time // nil = still a member
}

type TeamProject struct {
	ID        int64
	TeamID    int64
	ProjectID int64
	StartDate time.Time
	EndDate   *time.Time
}

type Setting struct {
	Key   string
	Value string
}

// EntryFilter is used to filter time entries in queries. Empty id lists mean
// no restriction; From and To are inclusive civil dates.
type EntryFilter struct {
	UserIDs    []int64
	ProjectIDs []int64
	From       *time.Time
	To         *time.Time
	Limit      int
}

// Names maps ids to display names for every labelled table.
type Names struct {
	Users      map[int64]string
	Projects   map[int64]string
	Activities map[int64]string
	Issues     map[int64]string
}

package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/timeanalytics/internal/analytics"
)

type jsonExport struct {
	ExportedAt string      `json:"exported_at"`
	From       string      `json:"from,omitempty"`
	To         string      `json:"to,omitempty"`
	Count      int         `json:"count"`
	TotalHours string      `json:"total_hours"`
	Entries    []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	Date      string `json:"date"`
	Member    string `json:"member"`
	Project   string `json:"project"`
	ProjectID int64  `json:"project_id"`
	Activity  string `json:"activity"`
	IssueID   *int64 `json:"issue_id,omitempty"`
	Issue     string `json:"issue,omitempty"`
	Comment   string `json:"comment,omitempty"`
	Hours     string `json:"hours"`
}

// ToJSON writes records as an indented JSON document. from and to are
// recorded as given and may be empty.
func ToJSON(records []analytics.Record, dir analytics.Directory, from, to, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		From:       from,
		To:         to,
		Count:      len(records),
		TotalHours: hours(analytics.TotalHours(records)),
		Entries:    []jsonEntry{},
	}

	for _, r := range records {
		export.Entries = append(export.Entries, jsonEntry{
			Date:      r.Date.Format("2006-01-02"),
			Member:    orElse(dir.ActorName(r.ActorID), analytics.UnknownMember),
			Project:   orElse(dir.ProjectName(r.ProjectID), analytics.NoProject),
			ProjectID: r.ProjectID,
			Activity:  orElse(dir.ActivityName(r.ActivityID), analytics.NoActivity),
			IssueID:   r.IssueID,
			Issue:     dir.IssueSubject(r.IssueID),
			Comment:   r.Comment,
			Hours:     hours(r.Hours),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

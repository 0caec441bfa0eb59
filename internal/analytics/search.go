package analytics

import "strings"

// Search keeps records whose project name, issue subject, comment or member
// name contains query, ignoring case. A blank query keeps everything.
func Search(records []Record, dir Directory, query string) []Record {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return records
	}
	var out []Record
	for _, r := range records {
		fields := []string{
			dir.ProjectName(r.ProjectID),
			dir.IssueSubject(r.IssueID),
			r.Comment,
			dir.ActorName(r.ActorID),
		}
		for _, f := range fields {
			if strings.Contains(strings.ToLower(f), q) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

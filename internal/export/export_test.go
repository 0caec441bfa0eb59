package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sadopc/timeanalytics/internal/analytics"
	"github.com/sadopc/timeanalytics/internal/period"
)

func sampleData() ([]analytics.Record, analytics.Directory) {
	activity := int64(1)
	issue := int64(42)

	records := []analytics.Record{
		{
			Date:       period.Date(2025, 1, 6),
			Hours:      decimal.RequireFromString("4"),
			ActorID:    1,
			ProjectID:  1,
			ActivityID: &activity,
			IssueID:    &issue,
			Comment:    "worked on feature",
		},
		{
			Date:      period.Date(2025, 1, 7),
			Hours:     decimal.RequireFromString("3.5"),
			ActorID:   2,
			ProjectID: 2,
		},
		{
			Date:      period.Date(2025, 1, 14),
			Hours:     decimal.RequireFromString("1.25"),
			ActorID:   1,
			ProjectID: 99,
		},
	}

	dir := analytics.Directory{
		Actors:     map[int64]string{1: "Ann Perera", 2: "Bob Silva"},
		Projects:   map[int64]string{1: "Project Alpha", 2: "Project Beta"},
		Activities: map[int64]string{1: "Development"},
		Issues:     map[int64]string{42: "Login page"},
	}
	return records, dir
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return records
}

// ============================================================
// Rows
// ============================================================

func TestEntryRows(t *testing.T) {
	records, dir := sampleData()
	table := EntryRows(records, dir)

	expectedHeader := []string{"Date", "Project", "Activity", "Issue", "Comment", "Hours"}
	for i, h := range expectedHeader {
		if table.Header[i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, table.Header[i], h)
		}
	}

	// 3 data rows + blank + total
	if len(table.Rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(table.Rows))
	}

	first := table.Rows[0]
	want := []string{"2025-01-06", "Project Alpha", "Development", "#42: Login page", "worked on feature", "4.00"}
	for i, w := range want {
		if first[i] != w {
			t.Errorf("row[0][%d] = %q, want %q", i, first[i], w)
		}
	}

	second := table.Rows[1]
	if second[2] != "-" || second[3] != "-" || second[4] != "-" {
		t.Fatalf("missing values should render '-', got %v", second)
	}
	if table.Rows[2][1] != analytics.NoProject {
		t.Fatalf("unknown project = %q", table.Rows[2][1])
	}
	if len(table.Rows[3]) != 0 {
		t.Fatalf("expected blank separator row, got %v", table.Rows[3])
	}
	total := table.Rows[4]
	if total[0] != "TOTAL" || total[5] != "8.75" {
		t.Fatalf("total row = %v", total)
	}
}

func TestTeamEntryRows(t *testing.T) {
	records, dir := sampleData()
	table := TeamEntryRows("Backend", records, dir)

	if len(table.Header) != 8 || table.Header[0] != "Team" || table.Header[7] != "Comments" {
		t.Fatalf("header = %v", table.Header)
	}
	row := table.Rows[1]
	if row[0] != "Backend" || row[2] != "Bob Silva" || row[4] != "N/A" || row[5] != "N/A" || row[6] != "3.50" {
		t.Fatalf("row = %v", row)
	}
	if row[7] != "" {
		t.Fatalf("empty comment should stay empty, got %q", row[7])
	}
	last := table.Rows[len(table.Rows)-1]
	if last[0] != "TOTAL" || last[6] != "8.75" {
		t.Fatalf("total row = %v", last)
	}
}

func TestBucketRows(t *testing.T) {
	records, _ := sampleData()
	g := period.Grouping{Granularity: period.Weekly, WeekStart: time.Monday}
	table := BucketRows(analytics.Aggregate(records, g))

	if len(table.Rows) != 4 {
		t.Fatalf("expected 2 buckets + blank + total, got %d rows", len(table.Rows))
	}
	if got := table.Rows[0]; got[0] != "2025-W02" || got[1] != "7.50" || got[2] != "2" || got[3] != "2" {
		t.Fatalf("first bucket = %v", got)
	}
	if got := table.Rows[3]; got[0] != "TOTAL" || got[1] != "8.75" || got[3] != "3" {
		t.Fatalf("total = %v", got)
	}
}

func TestSummaryRows(t *testing.T) {
	records, dir := sampleData()
	g := period.Grouping{Granularity: period.Monthly}
	p := analytics.BuildPivot(records, g, analytics.ByActivity(dir))
	table := SummaryRows(p.Dimension, p.Summary())

	if table.Header[0] != "Activity" || table.Header[1] != "Total Hours" {
		t.Fatalf("header = %v", table.Header)
	}
	if table.Rows[0][0] != "No Activity" || table.Rows[0][1] != "4.75" {
		t.Fatalf("first row = %v", table.Rows[0])
	}
	last := table.Rows[len(table.Rows)-1]
	if last[0] != "TOTAL" || last[1] != "8.75" {
		t.Fatalf("total = %v", last)
	}
}

func TestPivotRows(t *testing.T) {
	records, dir := sampleData()
	g := period.Grouping{Granularity: period.Weekly, WeekStart: time.Monday}
	p := analytics.BuildPivot(records, g, analytics.ByProject(dir))
	table := PivotRows(p)

	wantHeader := []string{"Period", "Project Alpha", "Project Beta", "No Project", "Total"}
	if strings.Join(table.Header, "|") != strings.Join(wantHeader, "|") {
		t.Fatalf("header = %v", table.Header)
	}
	if got := strings.Join(table.Rows[0], "|"); got != "2025-W02|4.00|3.50|0.00|7.50" {
		t.Fatalf("row 0 = %s", got)
	}
	if got := strings.Join(table.Rows[2], "|"); got != "TOTAL|4.00|3.50|1.25|8.75" {
		t.Fatalf("totals = %s", got)
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	records, dir := sampleData()
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(EntryRows(records, dir), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	rows := readCSV(t, path)
	// header + 3 data rows + total; the blank line is skipped by the reader
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	if rows[4][0] != "TOTAL" {
		t.Fatalf("last row = %v", rows[4])
	}
}

func TestWriteCSVBlankSeparator(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, SummaryRows("project", nil)); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "Project,Total Hours\n\nTOTAL,0.00\n" {
		t.Fatalf("csv = %q", got)
	}
}

func TestToCSVBadPath(t *testing.T) {
	err := ToCSV(Table{Header: []string{"x"}}, "/nonexistent/dir/file.csv")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	records := []analytics.Record{{
		Date:      period.Date(2025, 1, 6),
		Hours:     decimal.NewFromInt(1),
		ProjectID: 1,
		Comment:   `notes with "quotes" and, commas`,
	}}
	dir := analytics.Directory{Projects: map[int64]string{1: `Project "Special"`}}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(EntryRows(records, dir), path); err != nil {
		t.Fatal(err)
	}

	rows := readCSV(t, path)
	if rows[1][1] != `Project "Special"` {
		t.Fatalf("project name mangled: %q", rows[1][1])
	}
	if rows[1][4] != `notes with "quotes" and, commas` {
		t.Fatalf("comment mangled: %q", rows[1][4])
	}
}

func TestFilename(t *testing.T) {
	got := Filename("csv", "team_analytics", "Backend Squad!", "2025-01-01", "2025-01-31")
	if got != "team_analytics_backend-squad_2025-01-01_2025-01-31.csv" {
		t.Fatalf("Filename = %q", got)
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	records, dir := sampleData()
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(records, dir, "2025-01-01", "2025-01-31", path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 3 || len(result.Entries) != 3 {
		t.Fatalf("count = %d entries = %d, want 3", result.Count, len(result.Entries))
	}
	if result.TotalHours != "8.75" {
		t.Fatalf("total = %q", result.TotalHours)
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}

	e := result.Entries[0]
	if e.Project != "Project Alpha" || e.Member != "Ann Perera" || e.Issue != "Login page" || e.Hours != "4.00" {
		t.Fatalf("entry = %+v", e)
	}
	if result.Entries[1].Activity != analytics.NoActivity {
		t.Fatalf("activity = %q", result.Entries[1].Activity)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, analytics.Directory{}, "", "", path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"entries": []`) {
		t.Fatalf("empty export should carry an empty list: %s", data)
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("JSON should be pretty-printed")
	}
}

func TestToJSONBadPath(t *testing.T) {
	err := ToJSON(nil, analytics.Directory{}, "", "", "/nonexistent/dir/file.json")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sadopc/timeanalytics/internal/period"
)

var mondayWeeks = period.Grouping{Granularity: period.Weekly, WeekStart: time.Monday}

func hrs(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func id(v int64) *int64 { return &v }

func rec(date time.Time, hours string, actor, project int64) Record {
	return Record{Date: date, Hours: hrs(hours), ActorID: actor, ProjectID: project}
}

func assertHours(t *testing.T, what string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(hrs(want)) {
		t.Errorf("%s = %s, want %s", what, got, want)
	}
}

// ============================================================
// Aggregate
// ============================================================

func TestAggregateWeeklyMonday(t *testing.T) {
	records := []Record{
		rec(period.Date(2025, 1, 6), "4", 1, 10),
		rec(period.Date(2025, 1, 7), "3", 1, 10),
	}
	got := Aggregate(records, mondayWeeks)
	if len(got) != 1 {
		t.Fatalf("got %d buckets, want 1", len(got))
	}
	if got[0].Key.String() != "2025-01-06" {
		t.Fatalf("bucket key = %s, want 2025-01-06", got[0].Key)
	}
	assertHours(t, "hours", got[0].Hours, "7")
	if got[0].EntryCount != 2 || got[0].ActorCount != 1 {
		t.Fatalf("entries=%d actors=%d, want 2 and 1", got[0].EntryCount, got[0].ActorCount)
	}
}

func TestAggregateDistinctActors(t *testing.T) {
	d := period.Date(2025, 3, 3)
	records := []Record{rec(d, "1", 1, 1), rec(d, "1", 2, 1), rec(d, "1", 1, 2), rec(d, "1.5", 3, 1)}
	got := Aggregate(records, period.Grouping{Granularity: period.Daily})
	if got[0].ActorCount != 3 {
		t.Fatalf("actor count = %d, want 3", got[0].ActorCount)
	}
	assertHours(t, "hours", got[0].Hours, "4.5")
}

func TestAggregateOrdersAscending(t *testing.T) {
	records := []Record{
		rec(period.Date(2025, 3, 15), "1", 1, 1),
		rec(period.Date(2024, 11, 2), "2", 1, 1),
		rec(period.Date(2025, 1, 9), "3", 1, 1),
	}
	got := Aggregate(records, period.Grouping{Granularity: period.Monthly})
	want := []string{"2024-11", "2025-01", "2025-03"}
	for i, b := range got {
		if b.Key.String() != want[i] {
			t.Errorf("bucket %d = %s, want %s", i, b.Key, want[i])
		}
	}
	desc := got.Sorted(Descending)
	if desc[0].Key.String() != "2025-03" || got[0].Key.String() != "2024-11" {
		t.Fatal("Sorted should reverse without touching the receiver")
	}
}

func TestAggregateAdditive(t *testing.T) {
	first := []Record{
		rec(period.Date(2025, 1, 6), "2", 1, 1),
		rec(period.Date(2025, 1, 8), "3.25", 2, 1),
		rec(period.Date(2025, 1, 14), "1", 1, 2),
	}
	second := []Record{
		rec(period.Date(2025, 1, 20), "4", 1, 1),
		rec(period.Date(2025, 1, 27), "0.5", 3, 2),
	}
	for _, g := range period.Granularities {
		grouping := period.Grouping{Granularity: g, WeekStart: time.Monday}
		whole := Aggregate(append(append([]Record{}, first...), second...), grouping)

		sum := make(map[period.Key]decimal.Decimal)
		for _, part := range [][]Record{first, second} {
			for _, b := range Aggregate(part, grouping) {
				sum[b.Key] = sum[b.Key].Add(b.Hours)
			}
		}
		if len(sum) != len(whole) {
			t.Fatalf("%s: %d keys from parts, %d from whole", g, len(sum), len(whole))
		}
		for _, b := range whole {
			if !sum[b.Key].Equal(b.Hours) {
				t.Errorf("%s %s: parts %s != whole %s", g, b.Key, sum[b.Key], b.Hours)
			}
		}
	}
}

// ============================================================
// FillGaps
// ============================================================

func TestFillGapsJanuary(t *testing.T) {
	r := period.Range{From: period.Date(2025, 1, 1), To: period.Date(2025, 1, 31)}
	records := []Record{
		rec(period.Date(2025, 1, 2), "8", 1, 1),
		rec(period.Date(2025, 1, 7), "4", 1, 1),
		rec(period.Date(2025, 1, 15), "2", 1, 1),
		rec(period.Date(2025, 1, 28), "1", 1, 1),
	}
	got := FillGaps(Aggregate(records, mondayWeeks), r, mondayWeeks)
	if len(got) != len(mondayWeeks.Keys(r)) {
		t.Fatalf("got %d buckets, want one per key", len(got))
	}
	var found bool
	for _, b := range got {
		if b.Key.String() == "2025-01-20" {
			found = true
			if !b.Hours.IsZero() || b.ActorCount != 0 || b.EntryCount != 0 {
				t.Fatalf("gap bucket = %+v, want zeros", b)
			}
		}
	}
	if !found {
		t.Fatal("week of 2025-01-20 missing")
	}
	assertHours(t, "total", got.Total(), "15")
}

func TestFillGapsDropsOutOfRangeAndEmpty(t *testing.T) {
	daily := period.Grouping{Granularity: period.Daily}
	buckets := Aggregate([]Record{rec(period.Date(2024, 12, 31), "5", 1, 1)}, daily)
	r := period.Range{From: period.Date(2025, 1, 1), To: period.Date(2025, 1, 3)}
	got := FillGaps(buckets, r, daily)
	if len(got) != 3 || !got.Total().IsZero() {
		t.Fatalf("got %d buckets totalling %s, want 3 empty", len(got), got.Total())
	}
	inverted := period.Range{From: r.To, To: r.From}
	if got := FillGaps(buckets, inverted, daily); len(got) != 0 {
		t.Fatalf("inverted range gave %d buckets", len(got))
	}
}

// ============================================================
// Summarize
// ============================================================

func TestSummarize(t *testing.T) {
	buckets := Buckets{
		{Hours: hrs("8")},
		{Hours: hrs("2.5")},
		{Hours: hrs("6")},
	}
	weekly := Summarize(buckets, period.Weekly, 99)
	assertHours(t, "sum", weekly.Sum, "16.5")
	assertHours(t, "average", weekly.Average, "5.5")
	assertHours(t, "min", weekly.Min, "2.5")
	assertHours(t, "max", weekly.Max, "8")

	daily := Summarize(buckets, period.Daily, 7)
	assertHours(t, "daily average", daily.Average, "2.36")
	if daily.Divisor != 7 {
		t.Fatalf("divisor = %d, want 7", daily.Divisor)
	}
}

func TestSummarizeZeroDivisor(t *testing.T) {
	s := Summarize(Buckets{{Hours: hrs("3")}}, period.Daily, 0)
	if !s.Average.IsZero() {
		t.Fatalf("average = %s, want 0", s.Average)
	}
	empty := Summarize(nil, period.Monthly, 0)
	if !empty.Sum.IsZero() || !empty.Average.IsZero() || !empty.Min.IsZero() || !empty.Max.IsZero() {
		t.Fatalf("empty stats = %+v", empty)
	}
}

// ============================================================
// Pivot
// ============================================================

func projectDir() Directory {
	return Directory{
		Projects:   map[int64]string{1: "P1", 2: "P2", 3: "P3"},
		Activities: map[int64]string{1: "Development", 2: "Review"},
		Actors:     map[int64]string{1: "Ann", 2: "Bob"},
	}
}

func TestPivotByProject(t *testing.T) {
	d := period.Date(2025, 1, 6)
	records := []Record{rec(d, "5", 1, 1), rec(d, "5", 1, 2), rec(d, "3", 1, 1)}
	p := BuildPivot(records, mondayWeeks, ByProject(projectDir()))

	if len(p.Values) != 2 || p.Values[0] != "P1" || p.Values[1] != "P2" {
		t.Fatalf("values = %v, want [P1 P2]", p.Values)
	}
	assertHours(t, "P1", p.ValueTotal("P1"), "8")
	assertHours(t, "P2", p.ValueTotal("P2"), "5")
	assertHours(t, "grand total", p.GrandTotal(), "13")
}

func TestPivotTieKeepsFirstSeen(t *testing.T) {
	d := period.Date(2025, 1, 6)
	records := []Record{rec(d, "2", 1, 3), rec(d, "2", 1, 1), rec(d, "2", 1, 2), rec(d, "4", 1, 2)}
	p := BuildPivot(records, mondayWeeks, ByProject(projectDir()))
	want := []string{"P2", "P3", "P1"}
	for i, v := range p.Values {
		if v != want[i] {
			t.Fatalf("values = %v, want %v", p.Values, want)
		}
	}
}

func TestPivotTotalsConsistent(t *testing.T) {
	records := []Record{
		{Date: period.Date(2025, 1, 2), Hours: hrs("1.25"), ActorID: 1, ProjectID: 1, ActivityID: id(1)},
		{Date: period.Date(2025, 1, 9), Hours: hrs("2"), ActorID: 2, ProjectID: 2, ActivityID: id(2)},
		{Date: period.Date(2025, 1, 9), Hours: hrs("0.75"), ActorID: 2, ProjectID: 2},
		{Date: period.Date(2025, 2, 3), Hours: hrs("6"), ActorID: 3, ProjectID: 9, ActivityID: id(7)},
	}
	dir := projectDir()
	for _, dim := range []Dimension{ByActivity(dir), ByProject(dir), ByMember(dir)} {
		p := BuildPivot(records, mondayWeeks, dim)
		sumValues, sumPeriods := decimal.Zero, decimal.Zero
		for _, h := range p.ValueTotals() {
			sumValues = sumValues.Add(h)
		}
		for _, h := range p.PeriodTotals() {
			sumPeriods = sumPeriods.Add(h)
		}
		grand := p.GrandTotal()
		if !sumValues.Equal(grand) || !sumPeriods.Equal(grand) || !grand.Equal(hrs("10")) {
			t.Errorf("%s: values %s periods %s grand %s", dim.Name, sumValues, sumPeriods, grand)
		}
	}
}

func TestPivotFallbackLabels(t *testing.T) {
	records := []Record{
		{Date: period.Date(2025, 1, 2), Hours: hrs("1"), ActorID: 42, ProjectID: 77},
	}
	dir := projectDir()
	tests := []struct {
		dim  Dimension
		want string
	}{
		{ByActivity(dir), NoActivity},
		{ByProject(dir), NoProject},
		{ByMember(dir), UnknownMember},
	}
	for _, tt := range tests {
		p := BuildPivot(records, mondayWeeks, tt.dim)
		if len(p.Values) != 1 || p.Values[0] != tt.want {
			t.Errorf("%s: values = %v, want [%s]", tt.dim.Name, p.Values, tt.want)
		}
	}
}

func TestPivotViews(t *testing.T) {
	records := []Record{
		{Date: period.Date(2025, 1, 6), Hours: hrs("3"), ProjectID: 1, ActivityID: id(1)},
		{Date: period.Date(2025, 1, 13), Hours: hrs("2"), ProjectID: 1, ActivityID: id(2)},
		{Date: period.Date(2025, 1, 14), Hours: hrs("4"), ProjectID: 1, ActivityID: id(1)},
	}
	p := BuildPivot(records, mondayWeeks, ByActivity(projectDir()))

	summary := p.Summary()
	if len(summary) != 2 || summary[0].Label != "Development" {
		t.Fatalf("summary = %+v", summary)
	}
	assertHours(t, "development", summary[0].Hours, "7")

	rows := p.Detailed(Descending)
	if len(rows) != 2 || rows[0].Key.String() != "2025-01-13" {
		t.Fatalf("detailed rows = %+v", rows)
	}
	assertHours(t, "latest week total", rows[0].Total, "6")
	assertHours(t, "latest week development", rows[0].Cells[0], "4")
	assertHours(t, "latest week review", rows[0].Cells[1], "2")
}

func TestPivotFillGaps(t *testing.T) {
	records := []Record{
		rec(period.Date(2025, 1, 6), "3", 1, 1),
		rec(period.Date(2025, 1, 27), "2", 1, 2),
		rec(period.Date(2025, 2, 10), "9", 1, 2),
	}
	p := BuildPivot(records, mondayWeeks, ByProject(projectDir()))
	r := period.Range{From: period.Date(2025, 1, 6), To: period.Date(2025, 1, 31)}
	filled := p.FillGaps(r)
	if len(filled.Periods) != 4 {
		t.Fatalf("periods = %d, want 4", len(filled.Periods))
	}
	if !filled.PeriodTotal(filled.Periods[1]).IsZero() {
		t.Fatal("gap week should total zero")
	}
	assertHours(t, "filled grand total", filled.GrandTotal(), "5")
	assertHours(t, "original grand total", p.GrandTotal(), "14")
}

func TestDimensionCollapse(t *testing.T) {
	d := period.Date(2025, 1, 6)
	records := []Record{rec(d, "1", 1, 1), rec(d, "2", 1, 2), rec(d, "4", 1, 3)}
	dim := ByProject(projectDir()).Collapse("Client Work", InProjects(1, 2))
	p := BuildPivot(records, mondayWeeks, dim)
	if len(p.Values) != 2 || p.Values[0] != "P3" || p.Values[1] != "Client Work" {
		t.Fatalf("values = %v", p.Values)
	}
	assertHours(t, "umbrella", p.ValueTotal("Client Work"), "3")
}

// ============================================================
// Teams, search, paging
// ============================================================

func TestActiveIDs(t *testing.T) {
	r := period.Range{From: period.Date(2025, 3, 1), To: period.Date(2025, 3, 31)}
	feb := period.Date(2025, 2, 28)
	intervals := []Interval{
		{ID: 1, Start: period.Date(2024, 1, 1)},
		{ID: 2, Start: period.Date(2024, 1, 1), End: &feb},
		{ID: 3, Start: period.Date(2025, 3, 31)},
		{ID: 4, Start: period.Date(2025, 4, 1)},
		{ID: 1, Start: period.Date(2025, 3, 5)},
		{ID: 5, Start: period.Date(2025, 1, 1)},
	}
	got := ActiveIDs(intervals, r, 5)
	want := []int64{1, 3}
	if len(got) != len(want) || got[0] != 1 || got[1] != 3 {
		t.Fatalf("active = %v, want %v", got, want)
	}
}

func TestTeamStats(t *testing.T) {
	d := period.Date(2025, 1, 6)
	records := []Record{rec(d, "2", 1, 10), rec(d, "3", 2, 11)}
	assertHours(t, "total", TotalHours(records), "5")

	s := SummarizeTeam(records, 4)
	if s.ActiveMembers != 2 || s.Size != 4 {
		t.Fatalf("stats = %+v", s)
	}
	assertHours(t, "per member", s.AveragePerMember, "1.25")
	if !SummarizeTeam(nil, 0).AveragePerMember.IsZero() {
		t.Fatal("empty team average should be zero")
	}
}

func TestSearch(t *testing.T) {
	dir := Directory{
		Projects: map[int64]string{1: "Website"},
		Issues:   map[int64]string{7: "Fix login redirect"},
		Actors:   map[int64]string{1: "Ann", 2: "Bob"},
	}
	d := period.Date(2025, 1, 6)
	records := []Record{
		{Date: d, Hours: hrs("1"), ActorID: 1, ProjectID: 1},
		{Date: d, Hours: hrs("1"), ActorID: 2, ProjectID: 2, IssueID: id(7)},
		{Date: d, Hours: hrs("1"), ActorID: 2, ProjectID: 2, Comment: "standup"},
	}
	tests := []struct {
		query string
		want  int
	}{
		{"", 3},
		{"web", 1},
		{"LOGIN", 1},
		{"bob", 2},
		{"stand", 1},
		{"nothing", 0},
	}
	for _, tt := range tests {
		if got := len(Search(records, dir, tt.query)); got != tt.want {
			t.Errorf("Search(%q) = %d records, want %d", tt.query, got, tt.want)
		}
	}
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}
	got, info := Page(items, 2, 3)
	if len(got) != 3 || got[0] != 4 || info.Pages != 3 || info.Total != 7 {
		t.Fatalf("page 2 = %v %+v", got, info)
	}
	got, info = Page(items, 9, 3)
	if len(got) != 1 || got[0] != 7 || info.Page != 3 {
		t.Fatalf("clamped page = %v %+v", got, info)
	}
	got, info = Page(items, 1, 0)
	if len(got) != 7 || info.Pages != 1 {
		t.Fatalf("unpaged = %v %+v", got, info)
	}
	got, info = Page([]int{}, 1, 10)
	if len(got) != 0 || info.Pages != 1 {
		t.Fatalf("empty = %v %+v", got, info)
	}
}

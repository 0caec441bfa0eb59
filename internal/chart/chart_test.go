package chart

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sadopc/timeanalytics/internal/analytics"
	"github.com/sadopc/timeanalytics/internal/period"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decs(ss ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(ss))
	for i, s := range ss {
		out[i] = dec(s)
	}
	return out
}

// ============================================================
// Series
// ============================================================

func TestFromBucketsWeeklyTooltips(t *testing.T) {
	g := period.Grouping{Granularity: period.Weekly, WeekStart: time.Monday}
	r := period.Range{From: period.Date(2025, 1, 1), To: period.Date(2025, 1, 31)}
	buckets := analytics.FillGaps(nil, r, g)

	s := FromBuckets("Hours", buckets, r)
	if len(s.Labels) != 5 || len(s.Values) != 5 || len(s.Tooltips) != 5 {
		t.Fatalf("lengths labels=%d values=%d tooltips=%d", len(s.Labels), len(s.Values), len(s.Tooltips))
	}
	if s.Labels[0] != "2025-W01" {
		t.Errorf("first label = %q", s.Labels[0])
	}
	if s.Tooltips[0] != "01/01/2025 to 01/05/2025" {
		t.Errorf("first tooltip = %q", s.Tooltips[0])
	}
	if s.Tooltips[2] != "01/13/2025 to 01/19/2025" {
		t.Errorf("middle tooltip = %q", s.Tooltips[2])
	}
}

func TestFromBucketsMonthlyHasNoTooltips(t *testing.T) {
	g := period.Grouping{Granularity: period.Monthly}
	r := period.Range{From: period.Date(2025, 1, 1), To: period.Date(2025, 3, 31)}
	s := FromBuckets("Hours", analytics.FillGaps(nil, r, g), r)
	if s.Tooltips != nil {
		t.Fatalf("tooltips = %v, want none", s.Tooltips)
	}
	if s.Labels[2] != "March 2025" {
		t.Fatalf("label = %q", s.Labels[2])
	}
}

func TestFromPivot(t *testing.T) {
	g := period.Grouping{Granularity: period.Monthly}
	act := int64(1)
	records := []analytics.Record{
		{Date: period.Date(2025, 1, 3), Hours: dec("2"), ActivityID: &act},
		{Date: period.Date(2025, 2, 3), Hours: dec("1")},
	}
	dir := analytics.Directory{Activities: map[int64]string{1: "Design"}}
	p := analytics.BuildPivot(records, g, analytics.ByActivity(dir))
	r := period.Range{From: period.Date(2025, 1, 1), To: period.Date(2025, 2, 28)}

	series := FromPivot(p, r)
	if len(series) != 2 || series[0].Name != "Design" || series[1].Name != analytics.NoActivity {
		t.Fatalf("series = %+v", series)
	}
	if !series[0].Values[1].IsZero() || !series[1].Values[1].Equal(dec("1")) {
		t.Fatalf("values = %v / %v", series[0].Values, series[1].Values)
	}
}

// ============================================================
// Percentages
// ============================================================

func TestPercentages(t *testing.T) {
	got := Percentages(decs("1", "1", "1"))
	for _, p := range got {
		if !p.Equal(dec("33.3")) {
			t.Fatalf("got %v, want 33.3 each", got)
		}
	}
	zero := Percentages(decs("0", "0"))
	if !zero[0].IsZero() || !zero[1].IsZero() {
		t.Fatalf("zero total gave %v", zero)
	}
}

func TestPercentagesSumNearHundred(t *testing.T) {
	inputs := [][]decimal.Decimal{
		decs("1", "2", "3", "4", "5", "6", "7"),
		decs("0.25", "7.5", "3.33"),
		decs("10"),
	}
	for _, in := range inputs {
		sum := decimal.Zero
		for _, p := range Percentages(in) {
			sum = sum.Add(p)
		}
		if sum.Sub(dec("100")).Abs().GreaterThan(dec("0.05").Mul(decimal.NewFromInt(int64(len(in))))) {
			t.Errorf("%v: percentages sum to %s", in, sum)
		}
	}
}

func TestProportionalLabels(t *testing.T) {
	s := Series{Labels: []string{"Development", "Review"}, Values: decs("5", "3")}
	got := ProportionalLabels(s)
	want := []string{"Development (62.5%, 5.0h)", "Review (37.5%, 3.0h)"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("label %d = %q, want %q", i, got[i], want[i])
		}
	}
	empty := ProportionalLabels(Series{Labels: []string{"Idle"}, Values: decs("0")})
	if empty[0] != "Idle (0.0%, 0.0h)" {
		t.Errorf("zero label = %q", empty[0])
	}
}

// ============================================================
// Colours
// ============================================================

func TestColors(t *testing.T) {
	if got := Colors(0); got != nil {
		t.Fatalf("Colors(0) = %v", got)
	}
	three := Colors(3)
	if len(three) != 3 || three[0] != "#FF6384" || three[2] != "#FFCE56" {
		t.Fatalf("Colors(3) = %v", three)
	}
	many := Colors(13)
	if many[9] != "#958AF7" {
		t.Fatalf("palette should be consumed first, got %q", many[9])
	}
	want := []string{"hsl(0, 70%, 60%)", "hsl(137.5, 70%, 60%)", "hsl(275, 70%, 60%)"}
	for i, w := range want {
		if many[10+i] != w {
			t.Errorf("overflow %d = %q, want %q", i, many[10+i], w)
		}
	}
	seen := make(map[string]int)
	for i, c := range Colors(10 + 3*hueCycle + 50) {
		if j, ok := seen[c]; ok {
			t.Fatalf("colour %q at %d repeats index %d", c, i, j)
		}
		seen[c] = i
	}
}

func TestHueCycles(t *testing.T) {
	tests := []struct {
		i    int
		want string
	}{
		{0, "hsl(0, 70%, 60%)"},
		{hueCycle - 1, "hsl(222.5, 70%, 60%)"},
		{hueCycle, "hsl(1.25, 70%, 45%)"},
		{2 * hueCycle, "hsl(0.625, 70%, 70%)"},
		{3 * hueCycle, "hsl(1.875, 70%, 60%)"},
	}
	for _, tt := range tests {
		if got := Hue(tt.i); got != tt.want {
			t.Errorf("Hue(%d) = %q, want %q", tt.i, got, tt.want)
		}
	}
}

// ============================================================
// Payloads
// ============================================================

func TestBuildPie(t *testing.T) {
	s := Series{Labels: []string{"A", "B"}, Values: decs("1", "3")}
	p := Build(Pie, s)
	if p.Type != Pie || p.Empty || p.TotalHours != 4 {
		t.Fatalf("payload = %+v", p)
	}
	if p.Labels[1] != "B (75.0%, 3.0h)" {
		t.Fatalf("pie label = %q", p.Labels[1])
	}
	if len(p.Datasets) != 1 || len(p.Datasets[0].BackgroundColor) != 2 {
		t.Fatalf("datasets = %+v", p.Datasets)
	}
}

func TestBuildEmptyIsPlaceholder(t *testing.T) {
	for _, k := range []Kind{Bar, Line, Pie} {
		p := Build(k, Series{})
		if !p.Empty || len(p.Labels) != 1 || p.Labels[0] != NoData || p.Type != k {
			t.Errorf("%s: placeholder = %+v", k, p)
		}
	}
	if p := BuildStacked(Bar, nil); !p.Empty {
		t.Error("stacked with no series should be the placeholder")
	}
}

func TestBuildStacked(t *testing.T) {
	series := []Series{
		{Name: "A", Labels: []string{"w1", "w2"}, Values: decs("1", "2")},
		{Name: "B", Labels: []string{"w1", "w2"}, Values: decs("0", "4")},
	}
	bar := BuildStacked(Bar, series)
	if len(bar.Datasets) != 2 || bar.Datasets[1].Label != "B" || bar.TotalHours != 7 {
		t.Fatalf("bar = %+v", bar)
	}
	pie := BuildStacked(Pie, series)
	if len(pie.Labels) != 2 || !strings.HasPrefix(pie.Labels[1], "B (57.1%") {
		t.Fatalf("pie labels = %v", pie.Labels)
	}
}

func TestPayloadJSON(t *testing.T) {
	data, err := Build(Line, Series{Labels: []string{"x"}, Values: decs("1.5")}).JSON()
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["type"] != "line" || decoded["total_hours"] != 1.5 {
		t.Fatalf("decoded = %v", decoded)
	}
}

func TestParseKind(t *testing.T) {
	if k, err := ParseKind(" PIE "); err != nil || k != Pie {
		t.Fatalf("ParseKind = %v, %v", k, err)
	}
	if _, err := ParseKind("radar"); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("got %v, want ErrUnknownKind", err)
	}
}

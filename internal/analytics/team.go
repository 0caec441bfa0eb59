package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sadopc/timeanalytics/internal/period"
)

// Interval ties an id (a member or a project) to the dates it belonged to a
// team. A nil End means open ended.
type Interval struct {
	ID    int64
	Start time.Time
	End   *time.Time
}

// ActiveIDs returns the distinct ids whose interval overlaps r, minus the
// excluded ones, in first-seen order.
func ActiveIDs(intervals []Interval, r period.Range, exclude ...int64) []int64 {
	skip := idSet(exclude)
	seen := make(map[int64]bool)
	var out []int64
	for _, iv := range intervals {
		if _, ok := skip[iv.ID]; ok || seen[iv.ID] {
			continue
		}
		if r.Overlaps(iv.Start, iv.End) {
			seen[iv.ID] = true
			out = append(out, iv.ID)
		}
	}
	return out
}

// TeamStats summarises a team's logged time.
type TeamStats struct {
	Size             int
	ActiveMembers    int
	Total            decimal.Decimal
	AveragePerMember decimal.Decimal
}

// SummarizeTeam computes team totals. The per-member average divides by the
// team size and is zero for an empty team.
func SummarizeTeam(records []Record, size int) TeamStats {
	s := TeamStats{Size: size, Total: TotalHours(records), AveragePerMember: decimal.Zero}
	active := make(map[int64]struct{})
	for _, r := range records {
		active[r.ActorID] = struct{}{}
	}
	s.ActiveMembers = len(active)
	if size > 0 {
		s.AveragePerMember = s.Total.Div(decimal.NewFromInt(int64(size))).Round(2)
	}
	return s
}

package period

import (
	"fmt"
	"time"
)

// Label formats a key for tables and chart axes:
//
//	daily    Jan 06, 2025
//	weekly   2025-W02 (ISO week of the Monday inside the bucket)
//	monthly  January 2025
//	yearly   2025
func Label(k Key) string {
	switch k.g {
	case Weekly:
		s := k.Start()
		monday := s.AddDate(0, 0, (int(time.Monday)-int(s.Weekday())+7)%7)
		year, week := monday.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case Monthly:
		return k.Start().Format("January 2006")
	case Yearly:
		return k.Start().Format("2006")
	default:
		return k.Start().Format("Jan 02, 2006")
	}
}

// Tooltip describes the dates a bucket covers, clipped to the requested
// range. Only weekly buckets get a date span; other granularities reuse Label.
func Tooltip(k Key, r Range) string {
	if k.g != Weekly {
		return Label(k)
	}
	span := Range{From: k.Start(), To: k.End()}.Clip(r)
	return span.From.Format("01/02/2006") + " to " + span.To.Format("01/02/2006")
}

package analytics

import (
	"sort"
	"time"
)

// UserActivity is the minimal projection the retention aggregator needs:
// when the user signed up and when they were last seen.
type UserActivity struct {
	SignedUpAt   time.Time
	LastActiveAt *time.Time
}

// WeekKey identifies an ISO week, e.g. "2026-W11"
type WeekKey struct {
	Year int
	Week int
}

// Before reports whether k is an earlier week than other
func (k WeekKey) Before(other WeekKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Week < other.Week
}

// CohortRow is the retention breakdown for one signup week
type CohortRow struct {
	Week      WeekKey   `json:"week"`
	Size      int       `json:"size"`      // Users who signed up in this week
	Retention []float64 `json:"retention"` // Index 0 = week of signup, percentages 0..100
}

// ComputeRetention groups users into weekly signup cohorts and computes,
// for each cohort, the percentage still active k weeks after signup. A
// user counts as active in week k when their last activity falls in or
// after that week; a nil last activity counts only for week zero.
//
// Everything happens in memory over the two timestamps, so the caller
// can feed it straight from a single narrow query.
func ComputeRetention(users []UserActivity, maxWeeks int) []CohortRow {
	if maxWeeks < 1 {
		maxWeeks = 1
	}

	type cohort struct {
		start time.Time
		size  int
		// activeThrough[k] = users whose last activity is in week k or later
		activeThrough []int
	}

	cohorts := make(map[WeekKey]*cohort)

	for _, u := range users {
		key, weekStart := isoWeekOf(u.SignedUpAt)
		c, ok := cohorts[key]
		if !ok {
			c = &cohort{start: weekStart, activeThrough: make([]int, maxWeeks)}
			cohorts[key] = c
		}
		c.size++

		lastWeek := 0
		if u.LastActiveAt != nil {
			lastWeek = weeksBetween(weekStart, *u.LastActiveAt)
		}
		if lastWeek >= maxWeeks {
			lastWeek = maxWeeks - 1
		}
		if lastWeek < 0 {
			lastWeek = 0
		}
		for k := 0; k <= lastWeek; k++ {
			c.activeThrough[k]++
		}
	}

	rows := make([]CohortRow, 0, len(cohorts))
	for key, c := range cohorts {
		retention := make([]float64, maxWeeks)
		for k := 0; k < maxWeeks; k++ {
			retention[k] = percentage(c.activeThrough[k], c.size)
		}
		rows = append(rows, CohortRow{
			Week:      key,
			Size:      c.size,
			Retention: retention,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Week.Before(rows[j].Week)
	})

	return rows
}

// isoWeekOf returns the ISO week key and the Monday 00:00 UTC that starts it
func isoWeekOf(t time.Time) (WeekKey, time.Time) {
	t = t.UTC()
	year, week := t.ISOWeek()

	// Walk back to Monday of the ISO week
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	monday := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, -(weekday - 1))

	return WeekKey{Year: year, Week: week}, monday
}

// weeksBetween returns how many whole ISO weeks separate the cohort start
// from the given time. Same week = 0.
func weeksBetween(weekStart, t time.Time) int {
	diff := t.UTC().Sub(weekStart)
	if diff < 0 {
		return 0
	}
	return int(diff / (7 * 24 * time.Hour))
}

func percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) * 100 / float64(whole)
}

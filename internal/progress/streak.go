// Package progress maintains completion flags and activity records, and
// derives streaks and milestones from them. Streak values are never stored;
// they are recomputed from the append-only activity log on every read, which
// rules out counter drift.
package progress

import (
	"sort"
	"time"

	"github.com/course-companion/backend/internal/models"
)

// StreakResult is derived purely from a user's distinct activity dates.
type StreakResult struct {
	Current      int
	Longest      int
	LastActivity time.Time // zero when the user has no activity
	Status       string
}

// ComputeStreak walks the distinct activity dates backward from the most
// recent one, counting consecutive calendar days. The grace window is
// last-activity-date + 1 day in the user's own timezone: a streak anchored on
// yesterday is intact ("at_risk") until a second full calendar day passes
// with no activity. Dates and today must already be calendar days (midnight)
// in the user's timezone.
func ComputeStreak(dates []time.Time, today time.Time) StreakResult {
	if len(dates) == 0 {
		return StreakResult{Status: models.StreakBroken}
	}

	days := make([]time.Time, len(dates))
	copy(days, dates)
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	anchor := days[0]
	yesterday := today.AddDate(0, 0, -1)

	current := 0
	if !anchor.Before(yesterday) {
		current = 1
		cursor := anchor
		for _, d := range days[1:] {
			expected := cursor.AddDate(0, 0, -1)
			if d.Equal(expected) {
				current++
				cursor = d
			} else if d.Before(expected) {
				break
			}
		}
	}

	// Longest streak scans every consecutive run in the history.
	longest := 1
	run := 1
	for i := 0; i < len(days)-1; i++ {
		if days[i+1].Equal(days[i].AddDate(0, 0, -1)) {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	if current > longest {
		longest = current
	}

	status := models.StreakBroken
	switch {
	case anchor.Equal(today):
		status = models.StreakActive
	case anchor.Equal(yesterday):
		status = models.StreakAtRisk
	}

	return StreakResult{Current: current, Longest: longest, LastActivity: anchor, Status: status}
}

// LocalDay truncates t to its calendar day in loc, returned as a midnight
// UTC value so day arithmetic stays exact.
func LocalDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

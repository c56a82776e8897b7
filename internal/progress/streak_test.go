package progress

import (
	"reflect"
	"testing"
	"time"

	"github.com/course-companion/backend/internal/models"
)

func day(offset int) time.Time {
	base := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func TestComputeStreakConsecutive(t *testing.T) {
	// Activity on today and the two days before it.
	got := ComputeStreak([]time.Time{day(0), day(-1), day(-2)}, day(0))
	if got.Current != 3 {
		t.Errorf("Current = %d, want 3", got.Current)
	}
	if got.Longest != 3 {
		t.Errorf("Longest = %d, want 3", got.Longest)
	}
	if got.Status != models.StreakActive {
		t.Errorf("Status = %q, want active", got.Status)
	}
}

func TestComputeStreakGapResets(t *testing.T) {
	// A missing day in between: only today counts.
	got := ComputeStreak([]time.Time{day(0), day(-2)}, day(0))
	if got.Current != 1 {
		t.Errorf("Current = %d, want 1", got.Current)
	}
}

func TestComputeStreakGraceWindow(t *testing.T) {
	// Last activity yesterday: the streak survives but is at risk.
	got := ComputeStreak([]time.Time{day(-1), day(-2), day(-3)}, day(0))
	if got.Current != 3 {
		t.Errorf("Current = %d, want 3", got.Current)
	}
	if got.Status != models.StreakAtRisk {
		t.Errorf("Status = %q, want at_risk", got.Status)
	}

	// Two days of silence: broken, current streak zero.
	got = ComputeStreak([]time.Time{day(-2), day(-3)}, day(0))
	if got.Current != 0 {
		t.Errorf("Current after 2-day gap = %d, want 0", got.Current)
	}
	if got.Status != models.StreakBroken {
		t.Errorf("Status = %q, want broken", got.Status)
	}
}

func TestComputeStreakLongestSurvivesBreak(t *testing.T) {
	// A 4-day run in the past, then a gap, then activity today.
	dates := []time.Time{day(0), day(-5), day(-6), day(-7), day(-8)}
	got := ComputeStreak(dates, day(0))
	if got.Current != 1 {
		t.Errorf("Current = %d, want 1", got.Current)
	}
	if got.Longest != 4 {
		t.Errorf("Longest = %d, want 4", got.Longest)
	}
}

func TestComputeStreakUnsortedInput(t *testing.T) {
	// Order of the input must not matter.
	sorted := ComputeStreak([]time.Time{day(0), day(-1), day(-2)}, day(0))
	shuffled := ComputeStreak([]time.Time{day(-1), day(-2), day(0)}, day(0))
	if sorted != shuffled {
		t.Errorf("shuffled input gave %+v, sorted gave %+v", shuffled, sorted)
	}
}

func TestComputeStreakNoActivity(t *testing.T) {
	got := ComputeStreak(nil, day(0))
	if got.Current != 0 || got.Longest != 0 {
		t.Errorf("empty history: Current = %d, Longest = %d, want 0, 0", got.Current, got.Longest)
	}
	if got.Status != models.StreakBroken {
		t.Errorf("Status = %q, want broken", got.Status)
	}
	if !got.LastActivity.IsZero() {
		t.Errorf("LastActivity = %v, want zero", got.LastActivity)
	}
}

func TestLocalDayTimezone(t *testing.T) {
	// 2026-03-15 02:00 UTC is still 2026-03-14 in New York.
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	at := time.Date(2026, 3, 15, 2, 0, 0, 0, time.UTC)
	got := LocalDay(at, ny)
	want := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("LocalDay = %v, want %v", got, want)
	}
}

func TestMilestones(t *testing.T) {
	tests := []struct {
		name    string
		percent int
		streak  int
		want    []string
	}{
		{"nothing earned", 10, 1, []string{}},
		{"quarter done", 25, 0, []string{"completion_25"}},
		{"half done with week streak", 50, 7, []string{"completion_25", "completion_50", "streak_3", "streak_7"}},
		{"everything", 100, 30, []string{
			"completion_25", "completion_50", "completion_75", "completion_100",
			"streak_3", "streak_7", "streak_14", "streak_30",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Milestones(tt.percent, tt.streak)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Milestones(%d, %d) = %v, want %v", tt.percent, tt.streak, got, tt.want)
			}
		})
	}
}

func TestNewlyEarned(t *testing.T) {
	// Crossing 50% and reaching a 3-day streak in one mutation.
	got := NewlyEarned(40, 2, 50, 3)
	want := []string{"completion_50", "streak_3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NewlyEarned = %v, want %v", got, want)
	}

	// Already past the threshold before: nothing new.
	if got := NewlyEarned(50, 3, 60, 4); got != nil {
		t.Errorf("NewlyEarned above thresholds = %v, want none", got)
	}

	// Values can only move up, but a same-value call earns nothing.
	if got := NewlyEarned(25, 7, 25, 7); got != nil {
		t.Errorf("NewlyEarned with unchanged values = %v, want none", got)
	}
}

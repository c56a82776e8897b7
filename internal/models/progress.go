package models

import "time"

// ActivityRecord counts activity for one (user, local calendar date) pair.
// Rows are only ever inserted or incremented, never decremented or deleted;
// streaks are always recomputed from this log.
type ActivityRecord struct {
	UserID       int64  `json:"user_id"`
	ActivityDate string `json:"activity_date"` // YYYY-MM-DD in the user's timezone
	Count        int    `json:"count"`
}

type ChapterCompletion struct {
	UserID      int64     `json:"user_id"`
	ChapterID   int64     `json:"chapter_id"`
	CompletedAt time.Time `json:"completed_at"`
}

// ── Derived Summary ────────────────────────────────────

// ProgressSummary is recomputed from activity records and completion rows on
// every read; none of its values are stored.
type ProgressSummary struct {
	UserID            int64            `json:"user_id"`
	ChaptersCompleted int              `json:"chapters_completed"`
	Courses           []CourseProgress `json:"courses"`
	CurrentStreak     int              `json:"current_streak"`
	LongestStreak     int              `json:"longest_streak"`
	LastActivityDate  string           `json:"last_activity_date,omitempty"`
	StreakStatus      string           `json:"streak_status"`
	Milestones        []string         `json:"milestones"`
	NewlyEarned       []string         `json:"newly_earned,omitempty"`
}

type CourseProgress struct {
	CourseID          int64  `json:"course_id"`
	CourseTitle       string `json:"course_title"`
	CompletedChapters int    `json:"completed_chapters"`
	TotalChapters     int    `json:"total_chapters"`
	PercentComplete   int    `json:"percent_complete"`
}

// Streak status values reported in summaries.
const (
	StreakActive = "active"
	StreakAtRisk = "at_risk"
	StreakBroken = "broken"
)

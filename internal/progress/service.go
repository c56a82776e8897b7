package progress

import (
	"context"
	"time"

	"github.com/course-companion/backend/internal/catalog"
	"github.com/course-companion/backend/internal/entitlement"
	"github.com/course-companion/backend/internal/models"
)

type Service struct {
	store   *Store
	catalog *catalog.Store
	gate    *entitlement.Service
	now     func() time.Time
}

func NewService(store *Store, cat *catalog.Store, gate *entitlement.Service) *Service {
	return &Service{
		store:   store,
		catalog: cat,
		gate:    gate,
		now:     time.Now,
	}
}

// RecordActivity counts one unit of activity against the user's current local
// calendar date and returns the fresh summary. Used for activity that is not
// a completion or a quiz attempt, e.g. a reading session.
func (s *Service) RecordActivity(ctx context.Context, userID int64) (*models.ProgressSummary, error) {
	before, err := s.Summarize(ctx, userID)
	if err != nil {
		return nil, err
	}

	user, err := s.catalog.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	localDate := LocalDay(s.now(), user.Location()).Format("2006-01-02")
	if err := s.store.RecordActivity(ctx, userID, localDate); err != nil {
		return nil, err
	}

	after, err := s.Summarize(ctx, userID)
	if err != nil {
		return nil, err
	}
	after.NewlyEarned = NewlyEarned(
		overallPercent(before.Courses), before.CurrentStreak,
		overallPercent(after.Courses), after.CurrentStreak,
	)
	return after, nil
}

// CompleteChapter marks the chapter complete for the user and returns the
// fresh summary. The entitlement gate runs before anything is written. Newly
// earned milestones are found by diffing the summary's milestone inputs from
// before the mutation against after it.
func (s *Service) CompleteChapter(ctx context.Context, userID, chapterID int64) (*models.ProgressSummary, error) {
	chapter, err := s.catalog.GetChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.RequireAccess(ctx, userID, models.ResourceChapter, &chapter.ID); err != nil {
		return nil, err
	}

	before, err := s.Summarize(ctx, userID)
	if err != nil {
		return nil, err
	}

	user, err := s.catalog.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	localDate := LocalDay(s.now(), user.Location()).Format("2006-01-02")

	if _, err := s.store.CompleteChapter(ctx, userID, chapterID, localDate); err != nil {
		return nil, err
	}

	after, err := s.Summarize(ctx, userID)
	if err != nil {
		return nil, err
	}
	after.NewlyEarned = NewlyEarned(
		overallPercent(before.Courses), before.CurrentStreak,
		overallPercent(after.Courses), after.CurrentStreak,
	)
	return after, nil
}

// Summarize recomputes the user's full progress picture from stored facts:
// completion rows, the activity log, and the course catalog.
func (s *Service) Summarize(ctx context.Context, userID int64) (*models.ProgressSummary, error) {
	user, err := s.catalog.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	dates, err := s.store.ListActivityDates(ctx, userID)
	if err != nil {
		return nil, err
	}
	courses, err := s.catalog.ListPublishedCourses(ctx)
	if err != nil {
		return nil, err
	}
	completed, err := s.store.CountCompletedByCourse(ctx, userID)
	if err != nil {
		return nil, err
	}

	today := LocalDay(s.now(), user.Location())
	streak := ComputeStreak(dates, today)

	summary := &models.ProgressSummary{
		UserID:        userID,
		CurrentStreak: streak.Current,
		LongestStreak: streak.Longest,
		StreakStatus:  streak.Status,
		Courses:       make([]models.CourseProgress, 0, len(courses)),
	}
	if !streak.LastActivity.IsZero() {
		summary.LastActivityDate = streak.LastActivity.Format("2006-01-02")
	}

	for _, c := range courses {
		done := completed[c.ID]
		percent := 0
		if c.TotalChapters > 0 {
			percent = done * 100 / c.TotalChapters
		}
		summary.ChaptersCompleted += done
		summary.Courses = append(summary.Courses, models.CourseProgress{
			CourseID:          c.ID,
			CourseTitle:       c.Title,
			CompletedChapters: done,
			TotalChapters:     c.TotalChapters,
			PercentComplete:   percent,
		})
	}

	summary.Milestones = Milestones(overallPercent(summary.Courses), streak.Current)
	return summary, nil
}

// overallPercent aggregates completion across every published course, which
// is the value completion milestones are measured against.
func overallPercent(courses []models.CourseProgress) int {
	total, done := 0, 0
	for _, c := range courses {
		total += c.TotalChapters
		done += c.CompletedChapters
	}
	if total == 0 {
		return 0
	}
	return done * 100 / total
}

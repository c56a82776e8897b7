package progress

import (
	"context"
	"database/sql"
	"time"

	"github.com/course-companion/backend/internal/apperr"
	"github.com/course-companion/backend/internal/database"
)

type Store struct {
	db    *sql.DB
	retry database.RetryPolicy
}

func NewStore(db *sql.DB, retry database.RetryPolicy) *Store {
	return &Store{db: db, retry: retry}
}

// Execer is satisfied by both *sql.DB and *sql.Tx, so the activity upsert can
// run standalone or inside a caller's transaction.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// UpsertActivity bumps the activity counter for one (user, local date) pair
// in a single statement. The increment happens inside the database, so two
// concurrent calls always land as count+2, with no read-modify-write window.
func UpsertActivity(ctx context.Context, ex Execer, userID int64, localDate string) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO activity_records (user_id, activity_date, count)
		 VALUES ($1, $2, 1)
		 ON CONFLICT (user_id, activity_date)
		 DO UPDATE SET count = activity_records.count + 1`,
		userID, localDate,
	)
	return err
}

// RecordActivity registers one unit of activity for the given local calendar
// date.
func (s *Store) RecordActivity(ctx context.Context, userID int64, localDate string) error {
	err := s.retry.Do(ctx, "record activity", func(ctx context.Context) error {
		return UpsertActivity(ctx, s.db, userID, localDate)
	})
	if err != nil {
		return apperr.Store("record activity", err)
	}
	return nil
}

// CompleteChapter marks a chapter complete and records the activity in one
// transaction. Completion is idempotent: re-completing an already-complete
// chapter changes nothing and reports inserted == false, but still counts as
// activity for the day.
func (s *Store) CompleteChapter(ctx context.Context, userID, chapterID int64, localDate string) (bool, error) {
	var inserted bool
	err := s.retry.Do(ctx, "complete chapter", func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		res, err := tx.ExecContext(ctx,
			`INSERT INTO chapter_progress (user_id, chapter_id)
			 VALUES ($1, $2)
			 ON CONFLICT (user_id, chapter_id) DO NOTHING`,
			userID, chapterID,
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		inserted = n > 0

		if err := UpsertActivity(ctx, tx, userID, localDate); err != nil {
			return err
		}
		return tx.Commit()
	})
	if err != nil {
		return false, apperr.Store("complete chapter", err)
	}
	return inserted, nil
}

// ListActivityDates returns the user's distinct activity dates, most recent
// first, as midnight UTC values.
func (s *Store) ListActivityDates(ctx context.Context, userID int64) ([]time.Time, error) {
	var dates []time.Time
	err := s.retry.Do(ctx, "list activity dates", func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT activity_date FROM activity_records
			 WHERE user_id = $1 ORDER BY activity_date DESC`,
			userID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		dates = dates[:0]
		for rows.Next() {
			var d time.Time
			if err := rows.Scan(&d); err != nil {
				return err
			}
			dates = append(dates, time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC))
		}
		return rows.Err()
	})
	if err != nil {
		return nil, apperr.Store("list activity dates", err)
	}
	return dates, nil
}

// CountCompletedByCourse returns the user's completed-chapter counts keyed by
// course, counting only published chapters.
func (s *Store) CountCompletedByCourse(ctx context.Context, userID int64) (map[int64]int, error) {
	counts := make(map[int64]int)
	err := s.retry.Do(ctx, "count completed chapters", func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT c.course_id, COUNT(*)
			 FROM chapter_progress cp
			 JOIN chapters c ON c.id = cp.chapter_id AND c.is_published = TRUE
			 WHERE cp.user_id = $1
			 GROUP BY c.course_id`,
			userID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var courseID int64
			var n int
			if err := rows.Scan(&courseID, &n); err != nil {
				return err
			}
			counts[courseID] = n
		}
		return rows.Err()
	})
	if err != nil {
		return nil, apperr.Store("count completed chapters", err)
	}
	return counts, nil
}

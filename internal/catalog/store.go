// Package catalog reads the reference data this core consumes from its
// collaborators: user identity/tier state, course and chapter metadata, and
// the frozen embedding table. All of it is read-only here; the CRUD surface
// for these rows lives outside this service.
package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/course-companion/backend/internal/apperr"
	"github.com/course-companion/backend/internal/database"
	"github.com/course-companion/backend/internal/models"
)

type Store struct {
	db    *sql.DB
	retry database.RetryPolicy
}

func NewStore(db *sql.DB, retry database.RetryPolicy) *Store {
	return &Store{db: db, retry: retry}
}

func (s *Store) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	var u models.User
	err := s.retry.Do(ctx, "get user", func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx,
			`SELECT id, email, name, tier, tier_expires_at, timezone, created_at
			 FROM users WHERE id = $1`,
			userID,
		).Scan(&u.ID, &u.Email, &u.Name, &u.Tier, &u.TierExpiresAt, &u.Timezone, &u.CreatedAt)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Store("get user", err)
	}
	return &u, nil
}

func (s *Store) GetChapter(ctx context.Context, chapterID int64) (*models.Chapter, error) {
	var ch models.Chapter
	err := s.retry.Do(ctx, "get chapter", func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx,
			`SELECT id, course_id, chapter_number, title, summary, body_text, tier_required, is_published
			 FROM chapters WHERE id = $1 AND is_published = TRUE`,
			chapterID,
		).Scan(&ch.ID, &ch.CourseID, &ch.ChapterNumber, &ch.Title, &ch.Summary,
			&ch.BodyText, &ch.TierRequired, &ch.IsPublished)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Chapter not found")
	}
	if err != nil {
		return nil, apperr.Store("get chapter", err)
	}
	return &ch, nil
}

func (s *Store) ListPublishedCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := s.retry.Do(ctx, "list courses", func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT id, slug, title, total_chapters, is_published
			 FROM courses WHERE is_published = TRUE ORDER BY id`,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		courses = courses[:0]
		for rows.Next() {
			var c models.Course
			if err := rows.Scan(&c.ID, &c.Slug, &c.Title, &c.TotalChapters, &c.IsPublished); err != nil {
				return err
			}
			courses = append(courses, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, apperr.Store("list courses", err)
	}
	return courses, nil
}

// ListSearchChapters returns every published chapter with its searchable
// text, ordered by (course, chapter number) so downstream ranking ties break
// deterministically.
func (s *Store) ListSearchChapters(ctx context.Context) ([]models.Chapter, error) {
	var chapters []models.Chapter
	err := s.retry.Do(ctx, "list search chapters", func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT id, course_id, chapter_number, title, summary, body_text, tier_required, is_published
			 FROM chapters WHERE is_published = TRUE
			 ORDER BY course_id, chapter_number`,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		chapters = chapters[:0]
		for rows.Next() {
			var ch models.Chapter
			if err := rows.Scan(&ch.ID, &ch.CourseID, &ch.ChapterNumber, &ch.Title, &ch.Summary,
				&ch.BodyText, &ch.TierRequired, &ch.IsPublished); err != nil {
				return err
			}
			chapters = append(chapters, ch)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, apperr.Store("list search chapters", err)
	}
	return chapters, nil
}

// LoadEmbeddings reads the frozen embedding table. Called once at startup;
// the result is treated as immutable for the process lifetime.
func (s *Store) LoadEmbeddings(ctx context.Context) (map[int64][]float64, error) {
	embeddings := make(map[int64][]float64)
	err := s.retry.Do(ctx, "load embeddings", func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT chapter_id, embedding FROM chapter_embeddings`,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var chapterID int64
			var vec pq.Float64Array
			if err := rows.Scan(&chapterID, &vec); err != nil {
				return err
			}
			embeddings[chapterID] = []float64(vec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, apperr.Store("load embeddings", err)
	}
	return embeddings, nil
}

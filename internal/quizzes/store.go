package quizzes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/lib/pq"

	"github.com/course-companion/backend/internal/apperr"
	"github.com/course-companion/backend/internal/database"
	"github.com/course-companion/backend/internal/models"
	"github.com/course-companion/backend/internal/progress"
)

type Store struct {
	db    *sql.DB
	retry database.RetryPolicy
}

func NewStore(db *sql.DB, retry database.RetryPolicy) *Store {
	return &Store{db: db, retry: retry}
}

func (s *Store) GetQuiz(ctx context.Context, quizID int64) (*models.Quiz, error) {
	var q models.Quiz
	err := s.retry.Do(ctx, "get quiz", func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx,
			`SELECT id, chapter_id, title, passing_score, is_published
			 FROM quizzes WHERE id = $1 AND is_published = TRUE`,
			quizID,
		).Scan(&q.ID, &q.ChapterID, &q.Title, &q.PassingScore, &q.IsPublished)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Quiz not found")
	}
	if err != nil {
		return nil, apperr.Store("get quiz", err)
	}
	return &q, nil
}

// GetQuestions returns the quiz's questions with their grading keys, in
// question order.
func (s *Store) GetQuestions(ctx context.Context, quizID int64) ([]models.Question, error) {
	var questions []models.Question
	err := s.retry.Do(ctx, "get questions", func(ctx context.Context) error {
		rows, err := s.db.QueryContext(ctx,
			`SELECT id, quiz_id, question_number, prompt, question_type,
			        COALESCE(correct_answer, ''), COALESCE(accepted_tokens, '{}'),
			        COALESCE(match_pattern, ''), points
			 FROM questions WHERE quiz_id = $1
			 ORDER BY question_number`,
			quizID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		questions = questions[:0]
		for rows.Next() {
			var q models.Question
			var tokens pq.StringArray
			if err := rows.Scan(&q.ID, &q.QuizID, &q.QuestionNumber, &q.Prompt, &q.Type,
				&q.CorrectAnswer, &tokens, &q.MatchPattern, &q.Points); err != nil {
				return err
			}
			q.AcceptedTokens = []string(tokens)
			questions = append(questions, q)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, apperr.Store("get questions", err)
	}
	return questions, nil
}

// GetQuestion returns one question of a quiz, keyed by its id.
func (s *Store) GetQuestion(ctx context.Context, quizID, questionID int64) (*models.Question, error) {
	var q models.Question
	var tokens pq.StringArray
	err := s.retry.Do(ctx, "get question", func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx,
			`SELECT id, quiz_id, question_number, prompt, question_type,
			        COALESCE(correct_answer, ''), COALESCE(accepted_tokens, '{}'),
			        COALESCE(match_pattern, ''), points
			 FROM questions WHERE id = $1 AND quiz_id = $2`,
			questionID, quizID,
		).Scan(&q.ID, &q.QuizID, &q.QuestionNumber, &q.Prompt, &q.Type,
			&q.CorrectAnswer, &tokens, &q.MatchPattern, &q.Points)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Question not found")
	}
	if err != nil {
		return nil, apperr.Store("get question", err)
	}
	q.AcceptedTokens = []string(tokens)
	return &q, nil
}

// CountAttempts returns how many attempts the user has already submitted for
// the quiz.
func (s *Store) CountAttempts(ctx context.Context, userID, quizID int64) (int, error) {
	var n int
	err := s.retry.Do(ctx, "count attempts", func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM quiz_attempts WHERE user_id = $1 AND quiz_id = $2`,
			userID, quizID,
		).Scan(&n)
	})
	if err != nil {
		return 0, apperr.Store("count attempts", err)
	}
	return n, nil
}

// InsertAttempt persists a fully graded attempt and its activity credit in
// one transaction. A duplicate idempotency key surfaces as a ConflictError;
// unique violations are never retried, so the first accepted submission is
// the only one that ever lands.
func (s *Store) InsertAttempt(ctx context.Context, attempt *models.QuizAttempt, answers map[int64]string, localDate string) error {
	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return apperr.Store("encode answers", err)
	}
	resultsJSON, err := json.Marshal(attempt.Results)
	if err != nil {
		return apperr.Store("encode results", err)
	}

	err = s.retry.Do(ctx, "insert attempt", func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO quiz_attempts
			   (id, user_id, quiz_id, attempt_number, idempotency_key, answers, results, score, passed, submitted_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			attempt.ID, attempt.UserID, attempt.QuizID, attempt.AttemptNumber,
			attempt.IdempotencyKey, answersJSON, resultsJSON,
			attempt.Score, attempt.Passed, attempt.SubmittedAt,
		); err != nil {
			return err
		}

		if err := progress.UpsertActivity(ctx, tx, attempt.UserID, localDate); err != nil {
			return err
		}
		return tx.Commit()
	})
	if database.IsUniqueViolation(err, "quiz_attempts_idempotency_key") {
		return apperr.Conflict("An attempt with this idempotency key was already submitted")
	}
	if err != nil {
		return apperr.Store("insert attempt", err)
	}
	return nil
}

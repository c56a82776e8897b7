// Package quizzes implements quiz attempt submission: grade-then-persist,
// with idempotency keys guarding against duplicate writes.
package quizzes

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/course-companion/backend/internal/apperr"
	"github.com/course-companion/backend/internal/catalog"
	"github.com/course-companion/backend/internal/entitlement"
	"github.com/course-companion/backend/internal/grading"
	"github.com/course-companion/backend/internal/models"
	"github.com/course-companion/backend/internal/progress"
)

type Service struct {
	store               *Store
	catalog             *catalog.Store
	gate                *entitlement.Service
	maxAttempts         int
	defaultPassingScore int
	now                 func() time.Time
}

func NewService(store *Store, cat *catalog.Store, gate *entitlement.Service, maxAttempts, defaultPassingScore int) *Service {
	return &Service{
		store:               store,
		catalog:             cat,
		gate:                gate,
		maxAttempts:         maxAttempts,
		defaultPassingScore: defaultPassingScore,
		now:                 time.Now,
	}
}

// SubmitAttempt grades a full submission and persists it. Grading completes
// entirely in memory before the single transactional write, so a failed
// persist leaves no partial attempt behind.
func (s *Service) SubmitAttempt(ctx context.Context, userID, quizID int64, req models.SubmitAttemptRequest) (*models.AttemptResponse, error) {
	if req.IdempotencyKey == "" {
		return nil, apperr.Validation("idempotency_key is required")
	}
	if req.Answers == nil {
		return nil, apperr.Validation("answers is required")
	}

	quiz, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.RequireAccess(ctx, userID, models.ResourceQuiz, &quiz.ID); err != nil {
		return nil, err
	}

	count, err := s.store.CountAttempts(ctx, userID, quizID)
	if err != nil {
		return nil, err
	}
	if count >= s.maxAttempts {
		return nil, apperr.Forbidden(fmt.Sprintf("Maximum of %d attempts reached for this quiz", s.maxAttempts))
	}

	questions, err := s.store.GetQuestions(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, apperr.Validation("Quiz has no questions")
	}

	results, score, correct := gradeAll(questions, req.Answers)

	user, err := s.catalog.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	localDate := progress.LocalDay(now, user.Location()).Format("2006-01-02")

	attempt := &models.QuizAttempt{
		ID:             uuid.NewString(),
		UserID:         userID,
		QuizID:         quizID,
		AttemptNumber:  count + 1,
		IdempotencyKey: req.IdempotencyKey,
		Results:        results,
		Score:          score,
		Passed:         score >= effectivePassingScore(quiz.PassingScore, s.defaultPassingScore),
		SubmittedAt:    now,
	}
	if err := s.store.InsertAttempt(ctx, attempt, req.Answers, localDate); err != nil {
		return nil, err
	}

	return &models.AttemptResponse{
		AttemptID:      attempt.ID,
		QuizID:         quizID,
		AttemptNumber:  attempt.AttemptNumber,
		Score:          attempt.Score,
		Passed:         attempt.Passed,
		CorrectCount:   correct,
		TotalQuestions: len(questions),
		Results:        results,
		SubmittedAt:    attempt.SubmittedAt,
	}, nil
}

// SubmitAnswer grades a single question without recording anything, for
// instant feedback while reading a chapter.
func (s *Service) SubmitAnswer(ctx context.Context, userID, quizID, questionID int64, req models.SubmitAnswerRequest) (*models.AnswerResponse, error) {
	quiz, err := s.store.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.RequireAccess(ctx, userID, models.ResourceQuiz, &quiz.ID); err != nil {
		return nil, err
	}

	question, err := s.store.GetQuestion(ctx, quizID, questionID)
	if err != nil {
		return nil, err
	}

	result := grading.Grade(*question, req.RawAnswer)
	return &models.AnswerResponse{
		QuestionID:     question.ID,
		Correct:        result.Correct,
		MatchedRule:    string(result.MatchedRule),
		ExplanationRef: fmt.Sprintf("/chapters/%d#quiz-%d-q%d", quiz.ChapterID, quiz.ID, question.QuestionNumber),
	}, nil
}

// effectivePassingScore resolves the threshold an attempt is judged against:
// the quiz's own passing score, or the configured default when the quiz does
// not set one.
func effectivePassingScore(quizScore, fallback int) int {
	if quizScore > 0 {
		return quizScore
	}
	return fallback
}

// gradeAll grades every question against the submitted answers. A question
// with no submitted answer grades as incorrect, the same as an empty string.
func gradeAll(questions []models.Question, answers map[int64]string) ([]models.QuestionResult, int, int) {
	byQuestion := make(map[int64]grading.Result, len(questions))
	results := make([]models.QuestionResult, 0, len(questions))
	correct := 0
	for _, q := range questions {
		r := grading.Grade(q, answers[q.ID])
		byQuestion[q.ID] = r

		earned := 0
		if r.Correct {
			earned = q.Points
			correct++
		}
		results = append(results, models.QuestionResult{
			QuestionID:     q.ID,
			QuestionNumber: q.QuestionNumber,
			Correct:        r.Correct,
			MatchedRule:    string(r.MatchedRule),
			PointsEarned:   earned,
			PointsPossible: q.Points,
		})
	}
	return results, grading.Score(questions, byQuestion), correct
}

package models

import "time"

type QuestionType string

const (
	QuestionSingleChoice QuestionType = "single_choice"
	QuestionBoolean      QuestionType = "boolean"
	QuestionFreeToken    QuestionType = "free_token"
)

var ValidQuestionTypes = map[QuestionType]bool{
	QuestionSingleChoice: true,
	QuestionBoolean:      true,
	QuestionFreeToken:    true,
}

// ── Core Structs ───────────────────────────────────────

type Quiz struct {
	ID           int64  `json:"id"`
	ChapterID    int64  `json:"chapter_id"`
	Title        string `json:"title"`
	PassingScore int    `json:"passing_score"`
	IsPublished  bool   `json:"is_published"`
}

// Question is immutable once published. Exactly one of CorrectAnswer or
// AcceptedTokens is the authoritative key, depending on Type; MatchPattern is
// an optional fallback for free-token questions only.
type Question struct {
	ID             int64        `json:"id"`
	QuizID         int64        `json:"quiz_id"`
	QuestionNumber int          `json:"question_number"`
	Prompt         string       `json:"prompt"`
	Type           QuestionType `json:"question_type"`
	CorrectAnswer  string       `json:"-"`
	AcceptedTokens []string     `json:"-"`
	MatchPattern   string       `json:"-"`
	Points         int          `json:"points"`
}

// QuizAttempt is created exactly once per accepted submission and never
// mutated afterward.
type QuizAttempt struct {
	ID             string           `json:"id"`
	UserID         int64            `json:"user_id"`
	QuizID         int64            `json:"quiz_id"`
	AttemptNumber  int              `json:"attempt_number"`
	IdempotencyKey string           `json:"idempotency_key"`
	Results        []QuestionResult `json:"results"`
	Score          int              `json:"score"`
	Passed         bool             `json:"passed"`
	SubmittedAt    time.Time        `json:"submitted_at"`
}

// QuestionResult is the graded outcome for one question within an attempt.
type QuestionResult struct {
	QuestionID     int64  `json:"question_id"`
	QuestionNumber int    `json:"question_number"`
	Correct        bool   `json:"correct"`
	MatchedRule    string `json:"matched_rule"`
	PointsEarned   int    `json:"points_earned"`
	PointsPossible int    `json:"points_possible"`
}

// ── Request Types ──────────────────────────────────────

type SubmitAttemptRequest struct {
	Answers        map[int64]string `json:"answers"`
	IdempotencyKey string           `json:"idempotency_key"`
}

type SubmitAnswerRequest struct {
	RawAnswer string `json:"raw_answer"`
}

// ── Response Types ─────────────────────────────────────

type AttemptResponse struct {
	AttemptID      string           `json:"attempt_id"`
	QuizID         int64            `json:"quiz_id"`
	AttemptNumber  int              `json:"attempt_number"`
	Score          int              `json:"score"`
	Passed         bool             `json:"passed"`
	CorrectCount   int              `json:"correct_count"`
	TotalQuestions int              `json:"total_questions"`
	Results        []QuestionResult `json:"results"`
	SubmittedAt    time.Time        `json:"submitted_at"`
}

type AnswerResponse struct {
	QuestionID     int64  `json:"question_id"`
	Correct        bool   `json:"correct"`
	MatchedRule    string `json:"matched_rule"`
	ExplanationRef string `json:"explanation_ref"`
}

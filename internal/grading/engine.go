// Package grading implements rule-based answer grading. Every decision is
// deterministic and computed without state or I/O; malformed input always
// degrades to an incorrect verdict, never an error.
package grading

import (
	"log"
	"math"
	"regexp"
	"strings"

	"github.com/course-companion/backend/internal/models"
)

// MatchedRule records which rule produced a correct verdict, for auditing.
// Incorrect verdicts always carry RuleNone.
type MatchedRule string

const (
	RuleNone         MatchedRule = "none"
	RuleExactOption  MatchedRule = "exact_option"
	RuleBooleanAlias MatchedRule = "boolean_alias"
	RuleTokenSet     MatchedRule = "token_set"
	RulePattern      MatchedRule = "pattern"
)

type Result struct {
	Correct     bool
	MatchedRule MatchedRule
}

// booleanAliases is the explicit table used to normalize boolean answers.
// Anything not listed is treated as incorrect, not as an error.
var booleanAliases = map[string]bool{
	"true": true, "t": true, "y": true, "yes": true, "1": true,
	"false": false, "f": false, "n": false, "no": false, "0": false,
}

// Grade evaluates one submitted answer against a question's rule set.
func Grade(q models.Question, rawAnswer string) Result {
	answer := normalize(rawAnswer)
	if answer == "" {
		return Result{MatchedRule: RuleNone}
	}

	switch q.Type {
	case models.QuestionSingleChoice:
		return gradeSingleChoice(q, answer)
	case models.QuestionBoolean:
		return gradeBoolean(q, answer)
	case models.QuestionFreeToken:
		return gradeFreeToken(q, rawAnswer, answer)
	default:
		log.Printf("[grading] question %d has unknown type %q", q.ID, q.Type)
		return Result{MatchedRule: RuleNone}
	}
}

func gradeSingleChoice(q models.Question, answer string) Result {
	if answer == normalize(q.CorrectAnswer) {
		return Result{Correct: true, MatchedRule: RuleExactOption}
	}
	return Result{MatchedRule: RuleNone}
}

func gradeBoolean(q models.Question, answer string) Result {
	// An unmapped stored answer is a publishing defect; default false keeps
	// grading total rather than erroring.
	want := booleanAliases[normalize(q.CorrectAnswer)]

	got, ok := booleanAliases[answer]
	if !ok {
		return Result{MatchedRule: RuleNone}
	}
	if got == want {
		return Result{Correct: true, MatchedRule: RuleBooleanAlias}
	}
	return Result{MatchedRule: RuleNone}
}

func gradeFreeToken(q models.Question, rawAnswer, answer string) Result {
	// Exact set membership is authoritative; the pattern is only consulted
	// after every token has failed.
	for _, token := range q.AcceptedTokens {
		if answer == normalize(token) {
			return Result{Correct: true, MatchedRule: RuleTokenSet}
		}
	}

	if q.MatchPattern != "" {
		re, err := regexp.Compile("(?i)^(?:" + q.MatchPattern + ")$")
		if err != nil {
			log.Printf("[grading] question %d has malformed pattern %q, ignoring: %v", q.ID, q.MatchPattern, err)
			return Result{MatchedRule: RuleNone}
		}
		if re.MatchString(strings.TrimSpace(rawAnswer)) {
			return Result{Correct: true, MatchedRule: RulePattern}
		}
	}

	return Result{MatchedRule: RuleNone}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Score aggregates graded results into a 0-100 attempt score: earned points
// over possible points, rounded to the nearest integer. A quiz with no point
// value scores zero.
func Score(questions []models.Question, results map[int64]Result) int {
	totalPoints := 0
	earnedPoints := 0
	for _, q := range questions {
		totalPoints += q.Points
		if r, ok := results[q.ID]; ok && r.Correct {
			earnedPoints += q.Points
		}
	}
	if totalPoints == 0 {
		return 0
	}
	return int(math.Round(float64(earnedPoints) / float64(totalPoints) * 100))
}

// Package skills exposes the assistant-facing skill surface: a closed set of
// named capabilities. Every kind is declared here; there is no dynamic
// registration and no server-side code execution.
package skills

type Kind string

const (
	KindCalculator Kind = "calculator"
	KindSearch     Kind = "search"
	KindQuiz       Kind = "quiz"
	KindProgress   Kind = "progress"
	KindNavigation Kind = "navigation"
)

// Skill describes one capability and where it is served. Kinds other than
// the calculator delegate to existing endpoints; the descriptor tells the
// client where to go.
type Skill struct {
	Kind        Kind   `json:"kind"`
	Description string `json:"description"`
	Method      string `json:"method"`
	Endpoint    string `json:"endpoint"`
}

// Registry returns every known skill. The list is fixed at compile time.
func Registry() []Skill {
	return []Skill{
		{
			Kind:        KindCalculator,
			Description: "Evaluate an arithmetic expression",
			Method:      "POST",
			Endpoint:    "/api/v1/skills/calculate",
		},
		{
			Kind:        KindSearch,
			Description: "Search published chapters",
			Method:      "GET",
			Endpoint:    "/api/v1/search",
		},
		{
			Kind:        KindQuiz,
			Description: "Submit a quiz attempt",
			Method:      "POST",
			Endpoint:    "/api/v1/quizzes/{quizID}/attempts",
		},
		{
			Kind:        KindProgress,
			Description: "Read the learning-progress summary",
			Method:      "GET",
			Endpoint:    "/api/v1/progress",
		},
		{
			Kind:        KindNavigation,
			Description: "Mark a chapter complete and move on",
			Method:      "POST",
			Endpoint:    "/api/v1/chapters/{chapterID}/complete",
		},
	}
}

func ValidKind(k Kind) bool {
	switch k {
	case KindCalculator, KindSearch, KindQuiz, KindProgress, KindNavigation:
		return true
	}
	return false
}

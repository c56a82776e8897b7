package skills

import (
	"math"
	"strings"
	"testing"

	"github.com/course-companion/backend/internal/apperr"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		expr string
		want float64
	}{
		{"2+2", 4},
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 / 4", 2.5},
		{"10 % 3", 1},
		{"-5 + 3", -2},
		{"-(2 + 3)", -5},
		{"--4", 4},
		{"1.5 * 2", 3},
		{"2 - 3 - 4", -5},
		{"100 / 10 / 2", 5},
		{"((1))", 1},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Calculate(tt.expr)
			if err != nil {
				t.Fatalf("Calculate(%q): %v", tt.expr, err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Calculate(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestCalculateErrors(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"division by zero", "1 / 0"},
		{"modulo by zero", "1 % 0"},
		{"letters", "2 + x"},
		{"function call", "pow(2, 3)"},
		{"trailing operator", "2 +"},
		{"leading operator", "* 2"},
		{"unbalanced parens", "(2 + 3"},
		{"stray paren", "2 + 3)"},
		{"double dot", "1..2"},
		{"too long", "1" + strings.Repeat("+1", 200)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Calculate(tt.expr)
			if !apperr.IsKind(err, apperr.KindValidation) {
				t.Errorf("Calculate(%q) err = %v, want validation error", tt.expr, err)
			}
		})
	}
}

func TestCalculatePrecedence(t *testing.T) {
	// Multiplication binds tighter than addition; same-level operators
	// associate left.
	got, err := Calculate("2 + 3 * 4 - 6 / 2")
	if err != nil {
		t.Fatal(err)
	}
	if got != 11 {
		t.Errorf("got %v, want 11", got)
	}
}

func TestRegistryCoversEveryKind(t *testing.T) {
	kinds := map[Kind]bool{}
	for _, s := range Registry() {
		if !ValidKind(s.Kind) {
			t.Errorf("registry contains unknown kind %q", s.Kind)
		}
		if kinds[s.Kind] {
			t.Errorf("kind %q registered twice", s.Kind)
		}
		kinds[s.Kind] = true
		if s.Endpoint == "" || s.Method == "" {
			t.Errorf("kind %q missing endpoint or method", s.Kind)
		}
	}
	for _, k := range []Kind{KindCalculator, KindSearch, KindQuiz, KindProgress, KindNavigation} {
		if !kinds[k] {
			t.Errorf("kind %q missing from registry", k)
		}
	}
	if ValidKind("shell") {
		t.Error("unknown kind accepted")
	}
}

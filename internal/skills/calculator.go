package skills

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/course-companion/backend/internal/apperr"
)

// The calculator evaluates a fixed arithmetic grammar:
//
//	expr   = term { ("+" | "-") term }
//	term   = unary { ("*" | "/" | "%") unary }
//	unary  = "-" unary | primary
//	primary = number | "(" expr ")"
//
// Nothing else parses. Division and modulo by zero, malformed input, and
// non-finite results are all validation errors.

const maxExpressionLength = 256

// Calculate evaluates expr and returns the numeric result.
func Calculate(expr string) (float64, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return 0, apperr.Validation("expression must not be empty")
	}
	if len(expr) > maxExpressionLength {
		return 0, apperr.Validation(fmt.Sprintf("expression exceeds %d characters", maxExpressionLength))
	}

	tokens, err := lex(expr)
	if err != nil {
		return 0, err
	}

	p := &parser{tokens: tokens}
	result, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.tokens) {
		return 0, apperr.Validation(fmt.Sprintf("unexpected token %q", p.tokens[p.pos].text))
	}
	if math.IsInf(result, 0) || math.IsNaN(result) {
		return 0, apperr.Validation("expression result is not a finite number")
	}
	return result, nil
}

// ── Lexer ──────────────────────────────────────────────

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind  tokenKind
	text  string
	value float64
}

func lex(expr string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(expr) {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "("})
			i++
		case c == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")"})
			i++
		case c == '+' || c == '-' || c == '*' || c == '/' || c == '%':
			tokens = append(tokens, token{kind: tokOp, text: string(c)})
			i++
		case c >= '0' && c <= '9' || c == '.':
			start := i
			for i < len(expr) && (expr[i] >= '0' && expr[i] <= '9' || expr[i] == '.') {
				i++
			}
			text := expr[start:i]
			value, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, apperr.Validation(fmt.Sprintf("invalid number %q", text))
			}
			tokens = append(tokens, token{kind: tokNumber, text: text, value: value})
		default:
			return nil, apperr.Validation(fmt.Sprintf("unexpected character %q", string(c)))
		}
	}
	if len(tokens) == 0 {
		return nil, apperr.Validation("expression must not be empty")
	}
	return tokens, nil
}

// ── Parser ─────────────────────────────────────────────

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	return p.tokens[p.pos], true
}

func (p *parser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok.kind != tokOp || (tok.text != "+" && tok.text != "-") {
			return left, nil
		}
		p.pos++
		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if tok.text == "+" {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *parser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok.kind != tokOp || (tok.text != "*" && tok.text != "/" && tok.text != "%") {
			return left, nil
		}
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		switch tok.text {
		case "*":
			left *= right
		case "/":
			if right == 0 {
				return 0, apperr.Validation("division by zero")
			}
			left /= right
		case "%":
			if right == 0 {
				return 0, apperr.Validation("modulo by zero")
			}
			left = math.Mod(left, right)
		}
	}
}

func (p *parser) parseUnary() (float64, error) {
	if tok, ok := p.peek(); ok && tok.kind == tokOp && tok.text == "-" {
		p.pos++
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return -v, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (float64, error) {
	tok, ok := p.peek()
	if !ok {
		return 0, apperr.Validation("unexpected end of expression")
	}
	switch tok.kind {
	case tokNumber:
		p.pos++
		return tok.value, nil
	case tokLParen:
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		closing, ok := p.peek()
		if !ok || closing.kind != tokRParen {
			return 0, apperr.Validation("missing closing parenthesis")
		}
		p.pos++
		return v, nil
	default:
		return 0, apperr.Validation(fmt.Sprintf("unexpected token %q", tok.text))
	}
}

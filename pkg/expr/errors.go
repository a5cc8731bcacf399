package expr

import (
	"errors"
	"fmt"
	"strings"
)

// Error kind labels, used by transports to classify failures.
const (
	KindUnknownToken          = "UnknownToken"
	KindSyntaxError           = "SyntaxError"
	KindUnbalancedParenthesis = "UnbalancedParenthesis"
)

// SpanError is implemented by every error the parser returns.
type SpanError interface {
	error
	Position() Span
	Kind() string
}

// UnknownTokenError is returned when the parser reaches a lexeme outside the
// keyword set.
type UnknownTokenError struct {
	Lexeme string
	Span   Span
}

func (e *UnknownTokenError) Error() string {
	return positioned(e.Span, fmt.Sprintf(`Unknown token "%s"`, e.Lexeme))
}

// Position returns the span of the unknown lexeme.
func (e *UnknownTokenError) Position() Span { return e.Span }

// Kind returns KindUnknownToken.
func (e *UnknownTokenError) Kind() string { return KindUnknownToken }

// SyntaxError is returned when a token appears where the grammar does not
// allow it, or when input ends while a token is still required.
type SyntaxError struct {
	Expected []TokenType // rule-defined order
	Found    TokenType   // TokenEOF when input ran out
	Lexeme   string      // offending lexeme as written, empty at end of input
	Span     Span
}

func (e *SyntaxError) Error() string {
	return positioned(e.Span, fmt.Sprintf("Expected %s but got %s",
		joinAlternatives(e.Expected), quoteLabel(e.Found)))
}

// Position returns the span of the offending token.
func (e *SyntaxError) Position() Span { return e.Span }

// Kind returns KindSyntaxError.
func (e *SyntaxError) Kind() string { return KindSyntaxError }

// UnbalancedParenthesisError is returned when input ends while at least one
// "(" is still open. Span points at the innermost unmatched "(".
type UnbalancedParenthesisError struct {
	Span Span
}

func (e *UnbalancedParenthesisError) Error() string {
	return positioned(e.Span, "Unbalanced parenthesis")
}

// Position returns the span of the innermost unmatched "(".
func (e *UnbalancedParenthesisError) Position() Span { return e.Span }

// Kind returns KindUnbalancedParenthesis.
func (e *UnbalancedParenthesisError) Kind() string { return KindUnbalancedParenthesis }

// AsSpanError reports whether err is, or wraps, a parser error.
func AsSpanError(err error) (SpanError, bool) {
	var se SpanError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func positioned(span Span, msg string) string {
	return fmt.Sprintf("Error at position %s: %s", span, msg)
}

// joinAlternatives renders an expected set as `"A" or "B" or ...`.
func joinAlternatives(alts []TokenType) string {
	parts := make([]string, len(alts))
	for i, alt := range alts {
		parts[i] = quoteLabel(alt)
	}
	return strings.Join(parts, " or ")
}

// quoteLabel quotes token labels. End of input is not a lexeme and stays bare.
func quoteLabel(t TokenType) string {
	if t == TokenEOF {
		return t.String()
	}
	return `"` + t.String() + `"`
}

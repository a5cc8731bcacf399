// Package expr implements the boolean expression language: a scanner, a
// recursive descent parser with positioned diagnostics, and an evaluator.
// Expressions combine TRUE and FALSE with AND, OR, NOT and parentheses.
package expr

import "fmt"

// TokenType represents the type of a lexical token.
type TokenType int

const (
	// Literals
	TokenTrue  TokenType = iota // true
	TokenFalse                  // false

	// Logical
	TokenAnd // and
	TokenOr  // or
	TokenNot // not

	// Brackets
	TokenLParen // (
	TokenRParen // )

	// Special
	TokenUnrecognized // any other lexeme
	TokenEOF          // end of input; never produced by the lexer
)

// String returns the label used for the token type in error messages.
func (t TokenType) String() string {
	switch t {
	case TokenTrue:
		return "TRUE"
	case TokenFalse:
		return "FALSE"
	case TokenAnd:
		return "AND"
	case TokenOr:
		return "OR"
	case TokenNot:
		return "NOT"
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenUnrecognized:
		return "UNRECOGNIZED"
	case TokenEOF:
		return "end of input"
	default:
		return "UNKNOWN"
	}
}

// Span locates a token in the original input. Start and End are 0-based
// character offsets and both are inclusive.
type Span struct {
	Start int
	End   int
}

func (s Span) String() string {
	return fmt.Sprintf("%d-%d", s.Start, s.End)
}

// Len returns the number of characters covered by the span.
func (s Span) Len() int {
	return s.End - s.Start + 1
}

// Token represents a single lexical token.
type Token struct {
	Type  TokenType
	Value string // raw lexeme, original casing
	Span  Span
}

package expr

import (
	"strings"
	"unicode"
)

// Lexer tokenizes a boolean expression string.
type Lexer struct {
	input  []rune
	pos    int
	tokens []Token
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: []rune(input)}
}

// Tokenize scans the given input and returns all of its tokens.
func Tokenize(input string) []Token {
	return NewLexer(input).Tokenize()
}

// Tokenize scans the entire input and returns all tokens. Lexemes outside
// the keyword set are returned as TokenUnrecognized rather than reported, so
// the parser decides when they become an error.
func (l *Lexer) Tokenize() []Token {
	for {
		tok, ok := l.next()
		if !ok {
			break
		}
		l.tokens = append(l.tokens, tok)
	}
	return l.tokens
}

// next returns the next token, or false once the input is exhausted.
func (l *Lexer) next() (Token, bool) {
	l.skipWhitespace()

	if l.pos >= len(l.input) {
		return Token{}, false
	}

	switch ch := l.input[l.pos]; ch {
	case '(':
		l.pos++
		return Token{Type: TokenLParen, Value: "(", Span: Span{l.pos - 1, l.pos - 1}}, true
	case ')':
		l.pos++
		return Token{Type: TokenRParen, Value: ")", Span: Span{l.pos - 1, l.pos - 1}}, true
	}

	return l.readWord(), true
}

// readWord reads a maximal run of characters up to whitespace or a
// parenthesis and classifies it.
func (l *Lexer) readWord() Token {
	start := l.pos
	for l.pos < len(l.input) && isWordPart(l.input[l.pos]) {
		l.pos++
	}

	word := string(l.input[start:l.pos])
	span := Span{Start: start, End: l.pos - 1}
	return Token{Type: lookupKeyword(word), Value: word, Span: span}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) && unicode.IsSpace(l.input[l.pos]) {
		l.pos++
	}
}

// lookupKeyword matches ASCII keywords case-insensitively. Non-ASCII words
// never match, so folds like "ſ" to "S" cannot produce a keyword.
func lookupKeyword(word string) TokenType {
	for _, ch := range word {
		if ch > unicode.MaxASCII {
			return TokenUnrecognized
		}
	}
	switch strings.ToUpper(word) {
	case "TRUE":
		return TokenTrue
	case "FALSE":
		return TokenFalse
	case "AND":
		return TokenAnd
	case "OR":
		return TokenOr
	case "NOT":
		return TokenNot
	default:
		return TokenUnrecognized
	}
}

func isWordPart(ch rune) bool {
	return !unicode.IsSpace(ch) && ch != '(' && ch != ')'
}

package expr

import "unicode/utf8"

// Expected sets, in the order they are reported.
var (
	// start of an operand: beginning of input, after AND/OR, after "("
	operandStart = []TokenType{TokenTrue, TokenFalse, TokenNot, TokenLParen}
	// after NOT; a second NOT is not accepted
	negatedOperand = []TokenType{TokenTrue, TokenFalse, TokenLParen}
	// a complete operand followed by something that cannot continue it
	afterOperand = []TokenType{TokenAnd, TokenOr, TokenRParen}
	// a ")" with nothing open
	afterTopLevel = []TokenType{TokenAnd, TokenOr, TokenEOF}
)

// Parser is a recursive descent parser for boolean expressions.
// Precedence (low to high):
//
//	OR
//	AND
//	NOT
//	TRUE, FALSE, ( ... )
type Parser struct {
	tokens []Token
	pos    int
	open   []Span // spans of unmatched "(", innermost last
	end    int    // input length in characters
}

// NewParser creates a parser over the tokens of input.
func NewParser(input string) *Parser {
	return &Parser{
		tokens: Tokenize(input),
		end:    utf8.RuneCountInString(input),
	}
}

// Parse parses a complete expression. The returned error is one of
// *UnknownTokenError, *SyntaxError or *UnbalancedParenthesisError.
func Parse(input string) (Node, error) {
	return NewParser(input).Parse()
}

// Parse consumes every token and returns the expression tree.
func (p *Parser) Parse() (Node, error) {
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	tok, ok, err := p.current()
	if err != nil {
		return nil, err
	}
	if ok {
		if tok.Type == TokenRParen {
			return nil, p.unexpected(afterTopLevel, tok)
		}
		return nil, p.unexpected(afterOperand, tok)
	}

	return node, nil
}

// Depth returns the number of "(" consumed but not yet matched.
func (p *Parser) Depth() int {
	return len(p.open)
}

// current returns the current token, or false at end of input. An
// unrecognized token fails here, before any rule gets to match it.
func (p *Parser) current() (Token, bool, error) {
	if p.pos >= len(p.tokens) {
		return Token{}, false, nil
	}
	tok := p.tokens[p.pos]
	if tok.Type == TokenUnrecognized {
		return tok, true, &UnknownTokenError{Lexeme: tok.Value, Span: tok.Span}
	}
	return tok, true, nil
}

// advance consumes the current token.
func (p *Parser) advance() {
	p.pos++
}

func (p *Parser) parseExpression() (Node, error) {
	return p.parseOr()
}

func (p *Parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok, err := p.current()
		if err != nil {
			return nil, err
		}
		if !ok || tok.Type != TokenOr {
			return left, nil
		}
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: TokenOr, Left: left, Right: right}
	}
}

func (p *Parser) parseAnd() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		tok, ok, err := p.current()
		if err != nil {
			return nil, err
		}
		if !ok || tok.Type != TokenAnd {
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &BinaryNode{Op: TokenAnd, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() (Node, error) {
	tok, ok, err := p.current()
	if err != nil {
		return nil, err
	}
	if ok && tok.Type == TokenNot {
		p.advance()
		operand, err := p.parseAtom(negatedOperand)
		if err != nil {
			return nil, err
		}
		return &NotNode{Operand: operand}, nil
	}
	return p.parseAtom(operandStart)
}

// parseAtom parses a literal or a parenthesised expression, reporting
// expected when the current token cannot start one.
func (p *Parser) parseAtom(expected []TokenType) (Node, error) {
	tok, ok, err := p.current()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.endOfInput(expected)
	}

	switch tok.Type {
	case TokenTrue:
		p.advance()
		return &LiteralNode{Value: true}, nil
	case TokenFalse:
		p.advance()
		return &LiteralNode{Value: false}, nil
	case TokenLParen:
		return p.parseGroup(tok)
	default:
		return nil, p.unexpected(expected, tok)
	}
}

func (p *Parser) parseGroup(lparen Token) (Node, error) {
	p.advance()
	p.open = append(p.open, lparen.Span)

	inner, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	tok, ok, err := p.current()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, p.endOfInput(afterOperand)
	}
	if tok.Type != TokenRParen {
		return nil, p.unexpected(afterOperand, tok)
	}
	p.advance()
	p.open = p.open[:len(p.open)-1]

	return inner, nil
}

// endOfInput builds the error for running out of tokens. An open "(" takes
// priority over the expected set.
func (p *Parser) endOfInput(expected []TokenType) error {
	if n := len(p.open); n > 0 {
		return &UnbalancedParenthesisError{Span: p.open[n-1]}
	}
	return &SyntaxError{
		Expected: append([]TokenType(nil), expected...),
		Found:    TokenEOF,
		Span:     Span{Start: p.end, End: p.end},
	}
}

func (p *Parser) unexpected(expected []TokenType, tok Token) error {
	return &SyntaxError{
		Expected: append([]TokenType(nil), expected...),
		Found:    tok.Type,
		Lexeme:   tok.Value,
		Span:     tok.Span,
	}
}

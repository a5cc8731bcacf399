package expr

// Node is the interface for all expression AST nodes.
type Node interface {
	nodeType() string
}

// LiteralNode represents TRUE or FALSE.
type LiteralNode struct {
	Value bool
}

func (n *LiteralNode) nodeType() string { return "Literal" }

// NotNode represents a negation.
type NotNode struct {
	Operand Node
}

func (n *NotNode) nodeType() string { return "Not" }

// BinaryNode represents "a AND b" or "a OR b".
type BinaryNode struct {
	Op    TokenType // TokenAnd or TokenOr
	Left  Node
	Right Node
}

func (n *BinaryNode) nodeType() string { return "Binary" }

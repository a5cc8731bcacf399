package expr

import "fmt"

// IsTruthy parses and evaluates input. It never returns a result together
// with an error.
func IsTruthy(input string) (bool, error) {
	node, err := Parse(input)
	if err != nil {
		return false, err
	}
	return Evaluate(node)
}

// Evaluate folds an expression tree into its boolean value.
func Evaluate(node Node) (bool, error) {
	switch n := node.(type) {
	case *LiteralNode:
		return n.Value, nil
	case *NotNode:
		v, err := Evaluate(n.Operand)
		if err != nil {
			return false, err
		}
		return !v, nil
	case *BinaryNode:
		return evalBinary(n)
	default:
		return false, fmt.Errorf("unsupported expression node type: %T", node)
	}
}

func evalBinary(n *BinaryNode) (bool, error) {
	left, err := Evaluate(n.Left)
	if err != nil {
		return false, err
	}
	right, err := Evaluate(n.Right)
	if err != nil {
		return false, err
	}

	switch n.Op {
	case TokenAnd:
		return left && right, nil
	case TokenOr:
		return left || right, nil
	default:
		return false, fmt.Errorf("unsupported binary operator: %s", n.Op)
	}
}

package expr

import "strings"

// Format renders node in canonical form: uppercase keywords, single spaces,
// and every nested binary operation parenthesised. The output parses back to
// an equivalent tree.
func Format(node Node) string {
	var sb strings.Builder
	format(&sb, node, true)
	return sb.String()
}

func format(sb *strings.Builder, node Node, top bool) {
	switch n := node.(type) {
	case *LiteralNode:
		if n.Value {
			sb.WriteString(TokenTrue.String())
		} else {
			sb.WriteString(TokenFalse.String())
		}
	case *NotNode:
		sb.WriteString("NOT ")
		if _, nested := n.Operand.(*NotNode); nested {
			sb.WriteByte('(')
			format(sb, n.Operand, true)
			sb.WriteByte(')')
			return
		}
		format(sb, n.Operand, false)
	case *BinaryNode:
		if !top {
			sb.WriteByte('(')
		}
		format(sb, n.Left, false)
		sb.WriteByte(' ')
		sb.WriteString(n.Op.String())
		sb.WriteByte(' ')
		format(sb, n.Right, false)
		if !top {
			sb.WriteByte(')')
		}
	}
}

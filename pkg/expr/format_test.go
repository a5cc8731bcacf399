package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"true", "TRUE"},
		{"  ( false )", "FALSE"},
		{"not true", "NOT TRUE"},
		{"FALSE OR TRUE AND FALSE", "FALSE OR (TRUE AND FALSE)"},
		{"(FALSE OR TRUE) AND TRUE", "(FALSE OR TRUE) AND TRUE"},
		{"TRUE AND FALSE AND TRUE", "(TRUE AND FALSE) AND TRUE"},
		{"NOT (TRUE OR FALSE)", "NOT (TRUE OR FALSE)"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Format(node))
		})
	}
}

func TestFormatParsesBack(t *testing.T) {
	inputs := []string{
		"((FALSE OR (FALSE OR TRUE)) AND NOT (TRUE AND FALSE))",
		"NOT FALSE OR TRUE AND NOT TRUE",
		"(((TRUE)))",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			node, err := Parse(input)
			require.NoError(t, err)
			want, err := Evaluate(node)
			require.NoError(t, err)

			got, err := IsTruthy(Format(node))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestFormatNestedNot(t *testing.T) {
	node := &NotNode{Operand: &NotNode{Operand: &LiteralNode{Value: true}}}
	out := Format(node)
	assert.Equal(t, "NOT (NOT TRUE)", out)

	got, err := IsTruthy(out)
	require.NoError(t, err)
	assert.True(t, got)
}

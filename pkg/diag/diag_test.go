package diag

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemonberrylabs/boolcalc/pkg/expr"
)

func TestRenderSyntaxError(t *testing.T) {
	input := "FALSE OR AND FALSE"
	_, err := expr.IsTruthy(input)
	require.Error(t, err)

	got := Render(input, err, false)
	want := strings.Join([]string{
		`Error at position 9-11: Expected "TRUE" or "FALSE" or "NOT" or "(" but got "AND"`,
		"  FALSE OR AND FALSE",
		"  " + strings.Repeat(" ", 9) + "^^^",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestRenderEndOfInput(t *testing.T) {
	input := "TRUE AND"
	_, err := expr.IsTruthy(input)
	require.Error(t, err)

	lines := strings.Split(Render(input, err, false), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "  "+strings.Repeat(" ", 8)+"^", lines[2])
}

func TestRenderFlattensWhitespace(t *testing.T) {
	input := "TRUE\tAND\nbogus"
	_, err := expr.IsTruthy(input)
	require.Error(t, err)

	lines := strings.Split(Render(input, err, false), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "  TRUE AND bogus", lines[1])
	assert.Equal(t, "  "+strings.Repeat(" ", 9)+"^^^^^", lines[2])
}

func TestRenderPlainError(t *testing.T) {
	assert.Equal(t, "boom", Render("TRUE", errors.New("boom"), false))
}

func TestRenderStyledKeepsMessage(t *testing.T) {
	_, err := expr.IsTruthy("(")
	require.Error(t, err)
	assert.Contains(t, Render("(", err, true), "Unbalanced parenthesis")
}

func TestUnderline(t *testing.T) {
	assert.Equal(t, "^", Underline(expr.Span{Start: 3, End: 3}))
	assert.Equal(t, "^^^^", Underline(expr.Span{Start: 3, End: 6}))
	assert.Equal(t, "^", Underline(expr.Span{Start: 3, End: 1}))
}

func TestRenderSpan(t *testing.T) {
	got := RenderSpan("TRUE x", "remote failure", expr.Span{Start: 5, End: 5}, false)
	assert.Equal(t, "remote failure\n  TRUE x\n       ^", got)
}

package cases

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatorTable(t *testing.T) {
	cases, err := Load(filepath.Join("testdata", "calculator.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, cases)

	rep := Run(cases)
	for _, r := range rep.Results {
		assert.True(t, r.Passed, "%s:%d %s: %s", r.Case.File, r.Case.Line, r.Case.Label(), r.Reason)
	}
	assert.Equal(t, len(cases), rep.Passed)
	assert.Zero(t, rep.Failed)
}

func TestParseRecordsLines(t *testing.T) {
	data := []byte("cases:\n  - expr: \"TRUE\"\n    want: true\n  - name: empty\n    expr: \"\"\n    error_contains: end of input\n")
	cases, err := Parse("inline.yaml", data)
	require.NoError(t, err)
	require.Len(t, cases, 2)

	assert.Equal(t, 2, cases[0].Line)
	assert.Equal(t, `"TRUE"`, cases[0].Label())
	assert.Equal(t, 4, cases[1].Line)
	assert.Equal(t, "empty", cases[1].Label())
	assert.Equal(t, "inline.yaml", cases[1].File)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"invalid yaml", "cases: [", "bad.yaml"},
		{"no cases", "cases: []\n", "no cases defined"},
		{"not a mapping", "cases:\n  - TRUE\n", "bad.yaml:2: case must be a mapping"},
		{"missing expr", "cases:\n  - want: true\n", "missing expr"},
		{"no expectation", "cases:\n  - expr: \"TRUE\"\n", "exactly one of"},
		{"two expectations", "cases:\n  - expr: \"TRUE\"\n    want: true\n    error: x\n", "(has 2)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.yaml", []byte(tt.data))
			require.Error(t, err)
			var loadErr *LoadError
			assert.True(t, errors.As(err, &loadErr))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCheckReasons(t *testing.T) {
	yes := true

	tests := []struct {
		name string
		c    Case
		want string
	}{
		{"wrong value", Case{Expr: "FALSE", Want: &yes}, "want true, got false"},
		{"unexpected error", Case{Expr: "(", Want: &yes}, "got error"},
		{"missing error", Case{Expr: "TRUE", Error: "x"}, `want error "x", got true`},
		{"different error", Case{Expr: "(", Error: "x"}, `got "Error at position 0-0: Unbalanced parenthesis"`},
		{"missing substring", Case{Expr: "()", ErrorContains: "Unbalanced"}, "want error containing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Check(tt.c)
			assert.False(t, r.Passed)
			assert.Contains(t, r.Reason, tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "reading case file")
}

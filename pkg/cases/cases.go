// Package cases loads YAML tables of expressions and their expected outcomes
// and checks them against the calculator.
//
// A case file looks like:
//
//	cases:
//	  - expr: "TRUE AND NOT FALSE"
//	    want: true
//	  - expr: "FALSE OR AND FALSE"
//	    error: 'Error at position 9-11: Expected "TRUE" or "FALSE" or "NOT" or "(" but got "AND"'
//	  - expr: "("
//	    error_contains: Unbalanced parenthesis
package cases

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lemonberrylabs/boolcalc/pkg/expr"
)

// Case is one expression with exactly one expectation.
type Case struct {
	Name          string `yaml:"name"`
	Expr          string `yaml:"expr"`
	Want          *bool  `yaml:"want"`
	Error         string `yaml:"error"`
	ErrorContains string `yaml:"error_contains"`

	File string `yaml:"-"`
	Line int    `yaml:"-"`
}

// Label identifies the case in reports.
func (c Case) Label() string {
	if c.Name != "" {
		return c.Name
	}
	return fmt.Sprintf("%q", c.Expr)
}

// LoadError reports a malformed case file.
type LoadError struct {
	File    string
	Line    int
	Message string
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Message)
}

// Load reads a case file from disk.
func Load(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading case file: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes a case file. name is used in error messages only.
func Parse(name string, data []byte) ([]Case, error) {
	var doc struct {
		Cases []yaml.Node `yaml:"cases"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &LoadError{File: name, Message: err.Error()}
	}
	if len(doc.Cases) == 0 {
		return nil, &LoadError{File: name, Message: "no cases defined"}
	}

	result := make([]Case, 0, len(doc.Cases))
	for i := range doc.Cases {
		node := &doc.Cases[i]
		if node.Kind != yaml.MappingNode {
			return nil, &LoadError{File: name, Line: node.Line, Message: "case must be a mapping"}
		}

		var c Case
		if err := node.Decode(&c); err != nil {
			return nil, &LoadError{File: name, Line: node.Line, Message: err.Error()}
		}
		c.File = name
		c.Line = node.Line

		if !hasKey(node, "expr") {
			return nil, &LoadError{File: name, Line: node.Line, Message: "missing expr"}
		}
		if n := c.expectations(); n != 1 {
			return nil, &LoadError{File: name, Line: node.Line,
				Message: fmt.Sprintf("case needs exactly one of want, error, error_contains (has %d)", n)}
		}
		result = append(result, c)
	}
	return result, nil
}

func (c Case) expectations() int {
	n := 0
	if c.Want != nil {
		n++
	}
	if c.Error != "" {
		n++
	}
	if c.ErrorContains != "" {
		n++
	}
	return n
}

// hasKey distinguishes `expr: ""` from a missing expr.
func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return true
		}
	}
	return false
}

// Result is the outcome of running one case.
type Result struct {
	Case   Case
	Got    bool
	Err    error
	Passed bool
	Reason string // why the case failed
}

// Report summarises a run.
type Report struct {
	Results []Result
	Passed  int
	Failed  int
}

// Run evaluates every case.
func Run(cases []Case) Report {
	var rep Report
	for _, c := range cases {
		r := Check(c)
		if r.Passed {
			rep.Passed++
		} else {
			rep.Failed++
		}
		rep.Results = append(rep.Results, r)
	}
	return rep
}

// Check evaluates a single case.
func Check(c Case) Result {
	got, err := expr.IsTruthy(c.Expr)
	r := Result{Case: c, Got: got, Err: err}

	switch {
	case c.Want != nil:
		if err != nil {
			r.Reason = fmt.Sprintf("want %t, got error: %v", *c.Want, err)
		} else if got != *c.Want {
			r.Reason = fmt.Sprintf("want %t, got %t", *c.Want, got)
		}
	case c.Error != "":
		if err == nil {
			r.Reason = fmt.Sprintf("want error %q, got %t", c.Error, got)
		} else if err.Error() != c.Error {
			r.Reason = fmt.Sprintf("want error %q, got %q", c.Error, err.Error())
		}
	case c.ErrorContains != "":
		if err == nil {
			r.Reason = fmt.Sprintf("want error containing %q, got %t", c.ErrorContains, got)
		} else if !strings.Contains(err.Error(), c.ErrorContains) {
			r.Reason = fmt.Sprintf("want error containing %q, got %q", c.ErrorContains, err.Error())
		}
	}

	r.Passed = r.Reason == ""
	return r
}

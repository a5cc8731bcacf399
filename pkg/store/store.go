// Package store keeps a bounded, in-memory history of evaluations served by
// the HTTP, gRPC and web front ends. Nothing is persisted.
package store

import (
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/lemonberrylabs/boolcalc/pkg/expr"
)

// ErrNotFound is returned when an evaluation is not in the history, either
// because it never existed or because it was evicted.
var ErrNotFound = errors.New("not found")

// EvaluationState represents the outcome of an evaluation.
type EvaluationState string

const (
	EvaluationSucceeded EvaluationState = "SUCCEEDED"
	EvaluationFailed    EvaluationState = "FAILED"
)

// Evaluation is one recorded call to the calculator.
type Evaluation struct {
	Name       string           `json:"name"`
	ID         string           `json:"id"`
	Source     string           `json:"source"` // front end that served it
	Expression string           `json:"expression"`
	State      EvaluationState  `json:"state"`
	Result     bool             `json:"result"`
	Canonical  string           `json:"canonical,omitempty"`
	Error      *EvaluationError `json:"error,omitempty"`
	CreateTime time.Time        `json:"createTime"`
}

// EvaluationError describes a failed evaluation.
type EvaluationError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Span    *Span  `json:"span,omitempty"`
}

// Span is the JSON form of expr.Span.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Store is a thread-safe ring of the most recent evaluations.
type Store struct {
	mu          sync.RWMutex
	capacity    int
	evaluations map[string]*Evaluation
	order       []string // oldest first
}

// New creates an empty store holding at most capacity evaluations.
func New(capacity int) *Store {
	if capacity < 1 {
		capacity = 1
	}
	return &Store{
		capacity:    capacity,
		evaluations: make(map[string]*Evaluation),
	}
}

// CheckLength rejects expressions longer than maxLen characters. A maxLen of
// 0 disables the limit.
func CheckLength(expression string, maxLen int) error {
	if maxLen > 0 && utf8.RuneCountInString(expression) > maxLen {
		return fmt.Errorf("expression exceeds maximum length of %d characters", maxLen)
	}
	return nil
}

// Evaluate runs the calculator on expression and records the outcome.
// Parse failures are recorded, not returned: they are results of the call.
func (s *Store) Evaluate(source, expression string) *Evaluation {
	ev := &Evaluation{
		Source:     source,
		Expression: expression,
	}

	node, err := expr.Parse(expression)
	if err == nil {
		ev.Result, err = expr.Evaluate(node)
	}
	if err != nil {
		ev.State = EvaluationFailed
		ev.Error = NewEvaluationError(err)
	} else {
		ev.State = EvaluationSucceeded
		ev.Canonical = expr.Format(node)
	}

	s.add(ev)
	return ev
}

// NewEvaluationError converts a calculator error to its recorded form.
func NewEvaluationError(err error) *EvaluationError {
	se, ok := expr.AsSpanError(err)
	if !ok {
		return &EvaluationError{Kind: "Internal", Message: err.Error()}
	}
	pos := se.Position()
	return &EvaluationError{
		Kind:    se.Kind(),
		Message: se.Error(),
		Span:    &Span{Start: pos.Start, End: pos.End},
	}
}

func (s *Store) add(ev *Evaluation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev.ID = uuid.NewString()
	ev.Name = fmt.Sprintf("evaluations/%s", ev.ID)
	ev.CreateTime = time.Now()

	s.evaluations[ev.ID] = ev
	s.order = append(s.order, ev.ID)
	for len(s.order) > s.capacity {
		delete(s.evaluations, s.order[0])
		s.order = s.order[1:]
	}
}

// Get retrieves an evaluation by ID.
func (s *Store) Get(id string) (*Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ev, ok := s.evaluations[id]
	if !ok {
		return nil, fmt.Errorf("evaluation '%s': %w", id, ErrNotFound)
	}
	return ev, nil
}

// List returns the recorded evaluations, newest first.
func (s *Store) List() []*Evaluation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Evaluation, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		result = append(result, s.evaluations[s.order[i]])
	}
	return result
}

// Len returns the number of evaluations currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Counts returns how many held evaluations succeeded and failed.
func (s *Store) Counts() (succeeded, failed int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ev := range s.evaluations {
		if ev.State == EvaluationSucceeded {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}

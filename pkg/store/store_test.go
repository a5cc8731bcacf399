package store

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lemonberrylabs/boolcalc/pkg/expr"
)

func TestEvaluateSucceeded(t *testing.T) {
	s := New(10)
	ev := s.Evaluate("test", "false or true and false")

	assert.Equal(t, EvaluationSucceeded, ev.State)
	assert.False(t, ev.Result)
	assert.Equal(t, "FALSE OR (TRUE AND FALSE)", ev.Canonical)
	assert.Nil(t, ev.Error)
	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, "evaluations/"+ev.ID, ev.Name)
	assert.Equal(t, "test", ev.Source)
	assert.False(t, ev.CreateTime.IsZero())
}

func TestEvaluateFailed(t *testing.T) {
	s := New(10)
	ev := s.Evaluate("test", "TRUE UNEXPECTED FALSE")

	assert.Equal(t, EvaluationFailed, ev.State)
	require.NotNil(t, ev.Error)
	assert.Equal(t, expr.KindUnknownToken, ev.Error.Kind)
	assert.Equal(t, `Error at position 5-14: Unknown token "UNEXPECTED"`, ev.Error.Message)
	assert.Equal(t, &Span{Start: 5, End: 14}, ev.Error.Span)
	assert.Empty(t, ev.Canonical)
}

func TestNewEvaluationErrorInternal(t *testing.T) {
	e := NewEvaluationError(errors.New("boom"))
	assert.Equal(t, "Internal", e.Kind)
	assert.Nil(t, e.Span)
}

func TestGet(t *testing.T) {
	s := New(10)
	ev := s.Evaluate("test", "TRUE")

	got, err := s.Get(ev.ID)
	require.NoError(t, err)
	assert.Same(t, ev, got)

	_, err = s.Get("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListNewestFirstAndEviction(t *testing.T) {
	s := New(3)
	var ids []string
	for i := 0; i < 5; i++ {
		ids = append(ids, s.Evaluate("test", "TRUE AND TRUE").ID)
	}

	assert.Equal(t, 3, s.Len())
	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, ids[4], list[0].ID)
	assert.Equal(t, ids[2], list[2].ID)

	_, err := s.Get(ids[0])
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCounts(t *testing.T) {
	s := New(10)
	s.Evaluate("test", "TRUE")
	s.Evaluate("test", "NOT NOT")
	s.Evaluate("test", "(")

	ok, failed := s.Counts()
	assert.Equal(t, 1, ok)
	assert.Equal(t, 2, failed)
}

func TestNewClampsCapacity(t *testing.T) {
	s := New(0)
	s.Evaluate("test", "TRUE")
	s.Evaluate("test", "FALSE")
	assert.Equal(t, 1, s.Len())
}

func TestConcurrentEvaluate(t *testing.T) {
	s := New(50)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				s.Evaluate("test", "TRUE OR FALSE")
				s.List()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.Len())
}

func TestCheckLength(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		maxLen     int
		wantErr    string
	}{
		{"unlimited", "TRUE AND TRUE AND TRUE", 0, ""},
		{"at limit", "TRUE AND", 8, ""},
		{"over limit", "TRUE AND TRUE", 8, "expression exceeds maximum length of 8 characters"},
		{"counts characters", "ÄÄÄÄ", 4, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckLength(tt.expression, tt.maxLen)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}

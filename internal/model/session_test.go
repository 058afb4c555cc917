package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultPassed(t *testing.T) {
	tests := []struct {
		name    string
		correct int
		total   int
		want    bool
	}{
		{"30 of 32 passes", 30, 32, true},
		{"29 of 32 fails", 29, 32, false},
		{"perfect score passes", 32, 32, true},
		{"empty session fails", 0, 0, false},
		{"exact threshold on short paper", 8, 8, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Result{Correct: tt.correct, Total: tt.total}
			assert.Equal(t, tt.want, r.Passed())
		})
	}
}

func TestSessionAnswered(t *testing.T) {
	s := Session{
		Questions: []int{1, 2, 3},
		Answers:   map[int]string{1: "T", 3: "A", 99: "N"},
	}

	// Answers for questions outside the sequence do not count.
	assert.Equal(t, 2, s.Answered())
	assert.False(t, s.Complete())

	s.Answers[2] = "N"
	assert.True(t, s.Complete())
}

func TestQuestionIsCorrect(t *testing.T) {
	q := Question{Correct: "T"}

	assert.True(t, q.IsCorrect("T"))
	assert.False(t, q.IsCorrect("N"))
	assert.False(t, q.IsCorrect(""), "a missing answer never matches")
}

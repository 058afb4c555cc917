package model

import "time"

// PassThreshold is the correct/total ratio required to pass an exam.
// It approximates the official weighted 68/74 point threshold.
const PassThreshold = 0.917

// Session is one attempt at an exam paper. The question sequence is fixed
// at creation; answers grow one entry per answered question, first answer
// wins; Result stays nil until the session is finalized and is never
// recomputed afterwards.
type Session struct {
	ID   string    `json:"id"`
	Date time.Time `json:"date"`
	// Questions holds the ordered question IDs drawn at creation.
	Questions []int `json:"questions"`
	// Answers maps question ID to the submitted answer value.
	Answers map[int]string `json:"answers"`
	Result  *Result        `json:"result"`
}

// Answered reports how many questions of the session have an answer.
func (s *Session) Answered() int {
	n := 0
	for _, qid := range s.Questions {
		if _, ok := s.Answers[qid]; ok {
			n++
		}
	}
	return n
}

// Complete reports whether every question in the sequence has been answered.
func (s *Session) Complete() bool {
	return s.Answered() == len(s.Questions)
}

// Result is the finalized scoring record of a session.
type Result struct {
	Correct           int `json:"correct"`
	Total             int `json:"total"`
	BasicCorrect      int `json:"basicCorrect"`
	BasicTotal        int `json:"basicTotal"`
	SpecialistCorrect int `json:"specialistCorrect"`
	SpecialistTotal   int `json:"specialistTotal"`
}

// Passed derives the pass/fail outcome from the stored counts. It is a pure
// function and must be recomputed identically wherever it is displayed.
func (r Result) Passed() bool {
	if r.Total == 0 {
		return false
	}
	return float64(r.Correct)/float64(r.Total) >= PassThreshold
}

package model

// QuestionStats accumulates per-question performance across all sessions.
// Both counters are monotonically non-decreasing and are bumped exactly
// once per answer submission, whether or not the session is ever finalized.
type QuestionStats struct {
	Attempts int `json:"attempts"`
	Correct  int `json:"correct"`
}

// Accuracy returns the correct/attempts ratio, or 0 for unattempted questions.
func (s QuestionStats) Accuracy() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempts)
}

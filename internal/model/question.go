package model

// Category tags a question as belonging to the basic or specialist part
// of the exam. An exam paper draws 20 basic and 12 specialist questions.
type Category string

const (
	CategoryBasic      Category = "BASIC"
	CategorySpecialist Category = "SPECIALIST"
)

// QuestionType distinguishes yes/no questions from multiple-choice ones.
// The wire values follow the official workbook export (T/N vs A/B/C).
type QuestionType string

const (
	QuestionTypeYesNo  QuestionType = "TN"
	QuestionTypeChoice QuestionType = "ABC"
)

// Question is a single catalog entry. The catalog is loaded once at startup
// and questions are immutable afterwards.
type Question struct {
	ID   int          `json:"id"`
	Text string       `json:"text"`
	Type QuestionType `json:"type"`
	// Answers maps option keys (A/B/C) to option text. Nil for yes/no questions.
	Answers map[string]string `json:"answers,omitempty"`
	// Correct is "T"/"N" for yes/no questions, otherwise an option key.
	Correct  string   `json:"correct"`
	Media    string   `json:"media,omitempty"`
	Category Category `json:"category"`
	// MediaMissing marks questions whose media failed to download during
	// data preparation; they are excluded from exam sampling.
	MediaMissing bool `json:"mediaMissing,omitempty"`
}

// IsCorrect reports whether the given answer matches the correct one.
// An empty (missing) answer never matches.
func (q Question) IsCorrect(answer string) bool {
	return answer != "" && answer == q.Correct
}

package handler

import (
	"time"

	"github.com/prawko/practice-backend/internal/catalog"
	"github.com/prawko/practice-backend/internal/model"
)

// ExamView is the API shape of a session: counts instead of raw answer maps,
// with the derived pass/fail attached to the result.
type ExamView struct {
	ID            string      `json:"id"`
	Date          time.Time   `json:"date"`
	QuestionCount int         `json:"question_count"`
	Answered      int         `json:"answered"`
	Result        *ResultView `json:"result,omitempty"`
}

// ResultView carries the stored counts plus the derived outcome.
type ResultView struct {
	Correct           int  `json:"correct"`
	Total             int  `json:"total"`
	BasicCorrect      int  `json:"basic_correct"`
	BasicTotal        int  `json:"basic_total"`
	SpecialistCorrect int  `json:"specialist_correct"`
	SpecialistTotal   int  `json:"specialist_total"`
	Passed            bool `json:"passed"`
}

// QuestionView is the question-at-index payload. It never includes the
// correct answer; grading happens on submission.
type QuestionView struct {
	Index      int                `json:"index"`
	Total      int                `json:"total"`
	QuestionID int                `json:"question_id"`
	Text       string             `json:"text"`
	Type       model.QuestionType `json:"type"`
	Answers    map[string]string  `json:"answers,omitempty"`
	Media      string             `json:"media,omitempty"`
	Answered   bool               `json:"answered"`
	Answer     string             `json:"answer,omitempty"`
}

// AnswerView reports the grading of a submission. For a duplicate
// submission it reflects the originally recorded answer.
type AnswerView struct {
	QuestionID    int    `json:"question_id"`
	Answer        string `json:"answer"`
	CorrectAnswer string `json:"correct_answer"`
	Correct       bool   `json:"correct"`
	Answered      int    `json:"answered"`
	Total         int    `json:"total"`
}

// ReviewItemView is one line of a finalized session's per-question review.
type ReviewItemView struct {
	QuestionID    int    `json:"question_id"`
	Text          string `json:"text"`
	Answer        string `json:"answer"`
	CorrectAnswer string `json:"correct_answer"`
	Correct       bool   `json:"correct"`
}

// QuestionStatsView is one line of the aggregate statistics view.
type QuestionStatsView struct {
	QuestionID int     `json:"question_id"`
	Text       string  `json:"text,omitempty"`
	Attempts   int     `json:"attempts"`
	Correct    int     `json:"correct"`
	Accuracy   float64 `json:"accuracy"`
}

func examView(s *model.Session) ExamView {
	v := ExamView{
		ID:            s.ID,
		Date:          s.Date,
		QuestionCount: len(s.Questions),
		Answered:      s.Answered(),
	}
	if s.Result != nil {
		v.Result = &ResultView{
			Correct:           s.Result.Correct,
			Total:             s.Result.Total,
			BasicCorrect:      s.Result.BasicCorrect,
			BasicTotal:        s.Result.BasicTotal,
			SpecialistCorrect: s.Result.SpecialistCorrect,
			SpecialistTotal:   s.Result.SpecialistTotal,
			Passed:            s.Result.Passed(),
		}
	}
	return v
}

func questionView(s *model.Session, index int, q model.Question) QuestionView {
	answer, answered := s.Answers[q.ID]
	return QuestionView{
		Index:      index,
		Total:      len(s.Questions),
		QuestionID: q.ID,
		Text:       q.Text,
		Type:       q.Type,
		Answers:    q.Answers,
		Media:      q.Media,
		Answered:   answered,
		Answer:     answer,
	}
}

// reviewItems builds the per-question breakdown of a finalized session.
// Questions missing from the catalog are skipped.
func reviewItems(s *model.Session, cat *catalog.Catalog) []ReviewItemView {
	items := make([]ReviewItemView, 0, len(s.Questions))
	for _, qid := range s.Questions {
		q, ok := cat.ByID(qid)
		if !ok {
			continue
		}
		answer := s.Answers[qid]
		items = append(items, ReviewItemView{
			QuestionID:    qid,
			Text:          q.Text,
			Answer:        answer,
			CorrectAnswer: q.Correct,
			Correct:       q.IsCorrect(answer),
		})
	}
	return items
}

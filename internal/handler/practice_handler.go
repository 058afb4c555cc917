package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prawko/practice-backend/internal/catalog"
	"github.com/prawko/practice-backend/internal/response"
	"github.com/prawko/practice-backend/internal/service"
	"github.com/prawko/practice-backend/internal/validator"
)

// PracticeHandler drives the exam lifecycle: start, resume, answer,
// finalize, redo.
type PracticeHandler struct {
	engine *service.Engine
	cat    *catalog.Catalog
}

// NewPracticeHandler creates a new PracticeHandler.
func NewPracticeHandler(engine *service.Engine, cat *catalog.Catalog) *PracticeHandler {
	return &PracticeHandler{engine: engine, cat: cat}
}

// SubmitAnswerRequest is the payload for answering a session question.
type SubmitAnswerRequest struct {
	Index  int    `json:"index" binding:"min=0"`
	Answer string `json:"answer" binding:"required,oneof=T N A B C"`
}

// StartExam godoc
// POST /api/v1/exams
// Draws a fresh exam paper and makes it the active session.
func (h *PracticeHandler) StartExam(c *gin.Context) {
	session, err := h.engine.Create(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"exam": examView(session)})
}

// RedoExam godoc
// POST /api/v1/exams/:id/redo
// Starts a new attempt over the same question sequence.
func (h *PracticeHandler) RedoExam(c *gin.Context) {
	session, err := h.engine.Redo(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"exam": examView(session)})
}

// SubmitAnswer godoc
// POST /api/v1/exams/:id/answers
// Records an answer (first submission wins) and reports its grading.
func (h *PracticeHandler) SubmitAnswer(c *gin.Context) {
	var req SubmitAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")

	session, err := h.engine.Get(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if req.Index >= len(session.Questions) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	if err := h.engine.SubmitAnswer(ctx, id, req.Index, req.Answer); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	// Re-read to report the recorded answer: on a duplicate submission this
	// is the original one, not the value just sent.
	session, err = h.engine.Get(ctx, id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	qid := session.Questions[req.Index]
	q, ok := h.cat.ByID(qid)
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	recorded := session.Answers[qid]

	response.Success(c, http.StatusOK, gin.H{"answer": AnswerView{
		QuestionID:    qid,
		Answer:        recorded,
		CorrectAnswer: q.Correct,
		Correct:       q.IsCorrect(recorded),
		Answered:      session.Answered(),
		Total:         len(session.Questions),
	}})
}

// FinalizeExam godoc
// POST /api/v1/exams/:id/finalize
// Scores the session and clears the active-session pointer. Unanswered
// questions count as incorrect.
func (h *PracticeHandler) FinalizeExam(c *gin.Context) {
	session, err := h.engine.Finalize(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam": examView(session)})
}

// GetActiveExam godoc
// GET /api/v1/active-session
// Returns the in-progress session for crash/refresh recovery, or null.
func (h *PracticeHandler) GetActiveExam(c *gin.Context) {
	session, err := h.engine.Active(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if session == nil {
		response.Success(c, http.StatusOK, gin.H{"exam": nil})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"exam": examView(session)})
}

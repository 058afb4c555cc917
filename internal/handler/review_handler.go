package handler

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/prawko/practice-backend/internal/catalog"
	"github.com/prawko/practice-backend/internal/response"
	"github.com/prawko/practice-backend/internal/service"
)

// ReviewHandler serves the read-only views: session summary,
// question-at-index, history and aggregate statistics. Every view is a
// pure function of persisted state plus the catalog.
type ReviewHandler struct {
	engine *service.Engine
	cat    *catalog.Catalog
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(engine *service.Engine, cat *catalog.Catalog) *ReviewHandler {
	return &ReviewHandler{engine: engine, cat: cat}
}

// GetExam godoc
// GET /api/v1/exams/:id
// Session summary. The per-question review is included only once the
// session is finalized, so correct answers never leak mid-exam.
func (h *ReviewHandler) GetExam(c *gin.Context) {
	session, err := h.engine.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	var review []ReviewItemView
	if session.Result != nil {
		review = reviewItems(session, h.cat)
	}
	response.Success(c, http.StatusOK, gin.H{"exam": examView(session), "review": review})
}

// GetQuestion godoc
// GET /api/v1/exams/:id/questions/:index
func (h *ReviewHandler) GetQuestion(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	session, err := h.engine.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrSessionNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if index >= len(session.Questions) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	q, ok := h.cat.ByID(session.Questions[index])
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"question": questionView(session, index, q)})
}

// GetHistory godoc
// GET /api/v1/history
// All retained sessions, newest first.
func (h *ReviewHandler) GetHistory(c *gin.Context) {
	sessions, err := h.engine.History(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	views := make([]ExamView, 0, len(sessions))
	for i := range sessions {
		views = append(views, examView(&sessions[i]))
	}
	response.Success(c, http.StatusOK, gin.H{"exams": views})
}

// GetStats godoc
// GET /api/v1/stats
// Per-question statistics across all sessions, ordered by question ID.
func (h *ReviewHandler) GetStats(c *gin.Context) {
	stats, err := h.engine.Stats(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	views := make([]QuestionStatsView, 0, len(stats))
	for qid, st := range stats {
		v := QuestionStatsView{
			QuestionID: qid,
			Attempts:   st.Attempts,
			Correct:    st.Correct,
			Accuracy:   st.Accuracy(),
		}
		if q, ok := h.cat.ByID(qid); ok {
			v.Text = q.Text
		}
		views = append(views, v)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].QuestionID < views[j].QuestionID })

	response.Success(c, http.StatusOK, gin.H{"stats": views})
}

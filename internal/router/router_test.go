package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prawko/practice-backend/internal/catalog"
	"github.com/prawko/practice-backend/internal/config"
	"github.com/prawko/practice-backend/internal/handler"
	"github.com/prawko/practice-backend/internal/model"
	"github.com/prawko/practice-backend/internal/service"
	"github.com/prawko/practice-backend/internal/store"
	"github.com/prawko/practice-backend/internal/validator"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

type examPayload struct {
	Exam *struct {
		ID            string `json:"id"`
		QuestionCount int    `json:"question_count"`
		Answered      int    `json:"answered"`
		Result        *struct {
			Correct int  `json:"correct"`
			Total   int  `json:"total"`
			Passed  bool `json:"passed"`
		} `json:"result"`
	} `json:"exam"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	validator.Setup()

	var questions []model.Question
	for i := 1; i <= 25; i++ {
		questions = append(questions, model.Question{
			ID: i, Text: fmt.Sprintf("basic %d", i),
			Type: model.QuestionTypeYesNo, Correct: "T",
			Category: model.CategoryBasic,
		})
	}
	for i := 26; i <= 40; i++ {
		questions = append(questions, model.Question{
			ID: i, Text: fmt.Sprintf("specialist %d", i),
			Type:    model.QuestionTypeChoice,
			Answers: map[string]string{"A": "a", "B": "b", "C": "c"},
			Correct: "A", Category: model.CategorySpecialist,
		})
	}
	cat, err := catalog.New(questions)
	require.NoError(t, err)

	engine := service.NewEngine(store.NewMemory(), cat, zerolog.Nop())
	handlers := &Handlers{
		Practice: handler.NewPracticeHandler(engine, cat),
		Review:   handler.NewReviewHandler(engine, cat),
	}

	cfg := &config.Config{GinMode: gin.TestMode, MediaDir: t.TempDir()}
	return SetupRouter(handlers, cfg)
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	return w.Code, env
}

func decodeData(t *testing.T, env envelope, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func TestFullExamFlow(t *testing.T) {
	r := newTestRouter(t)

	// Start an exam.
	code, env := do(t, r, http.MethodPost, "/api/v1/exams", nil)
	require.Equal(t, http.StatusCreated, code)
	var started examPayload
	decodeData(t, env, &started)
	require.NotNil(t, started.Exam)
	examID := started.Exam.ID
	total := started.Exam.QuestionCount
	assert.Equal(t, 32, total)

	// The new session is resumable.
	code, env = do(t, r, http.MethodGet, "/api/v1/active-session", nil)
	require.Equal(t, http.StatusOK, code)
	var active examPayload
	decodeData(t, env, &active)
	require.NotNil(t, active.Exam)
	assert.Equal(t, examID, active.Exam.ID)

	// Walk the paper, answering everything correctly.
	for i := 0; i < total; i++ {
		code, env = do(t, r, http.MethodGet, fmt.Sprintf("/api/v1/exams/%s/questions/%d", examID, i), nil)
		require.Equal(t, http.StatusOK, code)
		var qp struct {
			Question struct {
				QuestionID int    `json:"question_id"`
				Type       string `json:"type"`
			} `json:"question"`
		}
		decodeData(t, env, &qp)

		answer := "T"
		if qp.Question.Type == string(model.QuestionTypeChoice) {
			answer = "A"
		}
		code, env = do(t, r, http.MethodPost, "/api/v1/exams/"+examID+"/answers",
			gin.H{"index": i, "answer": answer})
		require.Equal(t, http.StatusOK, code)
		var ap struct {
			Answer struct {
				Correct  bool `json:"correct"`
				Answered int  `json:"answered"`
			} `json:"answer"`
		}
		decodeData(t, env, &ap)
		assert.True(t, ap.Answer.Correct)
		assert.Equal(t, i+1, ap.Answer.Answered)
	}

	// Finalize and check the result.
	code, env = do(t, r, http.MethodPost, "/api/v1/exams/"+examID+"/finalize", nil)
	require.Equal(t, http.StatusOK, code)
	var done examPayload
	decodeData(t, env, &done)
	require.NotNil(t, done.Exam.Result)
	assert.Equal(t, total, done.Exam.Result.Total)
	assert.Equal(t, total, done.Exam.Result.Correct)
	assert.True(t, done.Exam.Result.Passed)

	// The active pointer is cleared.
	code, env = do(t, r, http.MethodGet, "/api/v1/active-session", nil)
	require.Equal(t, http.StatusOK, code)
	var cleared examPayload
	decodeData(t, env, &cleared)
	assert.Nil(t, cleared.Exam)

	// The summary now carries the per-question review.
	code, env = do(t, r, http.MethodGet, "/api/v1/exams/"+examID, nil)
	require.Equal(t, http.StatusOK, code)
	var summary struct {
		Review []struct {
			Correct bool `json:"correct"`
		} `json:"review"`
	}
	decodeData(t, env, &summary)
	assert.Len(t, summary.Review, total)

	// History holds exactly one session.
	code, env = do(t, r, http.MethodGet, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, code)
	var history struct {
		Exams []json.RawMessage `json:"exams"`
	}
	decodeData(t, env, &history)
	assert.Len(t, history.Exams, 1)

	// Stats cover every answered question exactly once.
	code, env = do(t, r, http.MethodGet, "/api/v1/stats", nil)
	require.Equal(t, http.StatusOK, code)
	var stats struct {
		Stats []struct {
			Attempts int `json:"attempts"`
		} `json:"stats"`
	}
	decodeData(t, env, &stats)
	assert.Len(t, stats.Stats, total)
	for _, s := range stats.Stats {
		assert.Equal(t, 1, s.Attempts)
	}
}

func TestRedoRepeatsPaper(t *testing.T) {
	r := newTestRouter(t)

	code, env := do(t, r, http.MethodPost, "/api/v1/exams", nil)
	require.Equal(t, http.StatusCreated, code)
	var started examPayload
	decodeData(t, env, &started)

	code, env = do(t, r, http.MethodPost, "/api/v1/exams/"+started.Exam.ID+"/redo", nil)
	require.Equal(t, http.StatusCreated, code)
	var redone examPayload
	decodeData(t, env, &redone)

	assert.NotEqual(t, started.Exam.ID, redone.Exam.ID)
	assert.Equal(t, started.Exam.QuestionCount, redone.Exam.QuestionCount)
	assert.Zero(t, redone.Exam.Answered)
}

func TestUnknownSessionIsNotFound(t *testing.T) {
	r := newTestRouter(t)

	code, env := do(t, r, http.MethodGet, "/api/v1/exams/no-such-id", nil)
	assert.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "SESSION_NOT_FOUND", env.Error.Code)
}

func TestInvalidAnswerIsRejected(t *testing.T) {
	r := newTestRouter(t)

	code, env := do(t, r, http.MethodPost, "/api/v1/exams", nil)
	require.Equal(t, http.StatusCreated, code)
	var started examPayload
	decodeData(t, env, &started)

	code, env = do(t, r, http.MethodPost, "/api/v1/exams/"+started.Exam.ID+"/answers",
		gin.H{"index": 0, "answer": "Z"})
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestDuplicateAnswerKeepsFirst(t *testing.T) {
	r := newTestRouter(t)

	code, env := do(t, r, http.MethodPost, "/api/v1/exams", nil)
	require.Equal(t, http.StatusCreated, code)
	var started examPayload
	decodeData(t, env, &started)
	examID := started.Exam.ID

	code, _ = do(t, r, http.MethodPost, "/api/v1/exams/"+examID+"/answers",
		gin.H{"index": 0, "answer": "T"})
	require.Equal(t, http.StatusOK, code)

	code, env = do(t, r, http.MethodPost, "/api/v1/exams/"+examID+"/answers",
		gin.H{"index": 0, "answer": "N"})
	require.Equal(t, http.StatusOK, code)

	var ap struct {
		Answer struct {
			Answer   string `json:"answer"`
			Answered int    `json:"answered"`
		} `json:"answer"`
	}
	decodeData(t, env, &ap)
	assert.Equal(t, "T", ap.Answer.Answer, "first answer wins")
	assert.Equal(t, 1, ap.Answer.Answered)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t)

	code, _ := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
}

package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prawko/practice-backend/internal/model"
)

const sampleJSON = `[
	{"id":1,"text":"Czy ustąpisz pierwszeństwa?","type":"TN","correct":"T","media":"q1.webm","structure":"PODSTAWOWY"},
	{"id":2,"text":"Które zachowanie jest poprawne?","type":"ABC","answers":{"A":"pierwsze","B":"drugie","C":"trzecie"},"correct":"B","structure":"SPECJALISTYCZNY"},
	{"id":3,"text":"Pytanie bez mediów","type":"TN","correct":"N","media":"q3.jpg","structure":"PODSTAWOWY","mediaMissing":true}
]`

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))

	cat, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 3, cat.Len())

	q1, ok := cat.ByID(1)
	require.True(t, ok)
	assert.Equal(t, model.CategoryBasic, q1.Category)
	assert.Equal(t, model.QuestionTypeYesNo, q1.Type)
	assert.Equal(t, "T", q1.Correct)
	assert.Equal(t, "q1.webm", q1.Media)

	q2, ok := cat.ByID(2)
	require.True(t, ok)
	assert.Equal(t, model.CategorySpecialist, q2.Category)
	assert.Equal(t, model.QuestionTypeChoice, q2.Type)
	assert.Equal(t, map[string]string{"A": "pierwsze", "B": "drugie", "C": "trzecie"}, q2.Answers)
}

func TestUsableIDsExcludesMissingMedia(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleJSON), 0o644))

	cat, err := Load(context.Background(), path)
	require.NoError(t, err)

	// Question 3 is basic but its media is missing, so only 1 is usable.
	assert.Equal(t, []int{1}, cat.UsableIDs(model.CategoryBasic))
	assert.Equal(t, []int{2}, cat.UsableIDs(model.CategorySpecialist))
}

func TestLoadFromHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleJSON))
	}))
	defer srv.Close()

	cat, err := Load(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, 3, cat.Len())
}

func TestLoadHTTPFailureStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestLoadBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"a list"`), 0o644))

	_, err := Load(context.Background(), path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestNewEmpty(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

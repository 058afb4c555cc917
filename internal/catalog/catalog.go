package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prawko/practice-backend/internal/model"
)

// ErrEmpty is returned when the catalog source decodes to zero questions.
var ErrEmpty = errors.New("catalog contains no questions")

// Catalog is the immutable, ordered question bank loaded once at startup.
type Catalog struct {
	questions []model.Question
	byID      map[int]model.Question
}

// rawQuestion mirrors one entry of questions.json as produced by the data
// preparation step. The Polish "structure" tag is mapped to a Category.
type rawQuestion struct {
	ID           int               `json:"id"`
	Text         string            `json:"text"`
	Type         string            `json:"type"`
	Answers      map[string]string `json:"answers"`
	Correct      string            `json:"correct"`
	Media        string            `json:"media"`
	Structure    string            `json:"structure"`
	MediaMissing bool              `json:"mediaMissing"`
}

// Load fetches and decodes the catalog from source, which is either an
// http(s) URL or a filesystem path. Any failure here is fatal to the
// application: there is no partial-catalog mode.
func Load(ctx context.Context, source string) (*Catalog, error) {
	raw, err := read(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", source, err)
	}

	var entries []rawQuestion
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", source, err)
	}

	questions := make([]model.Question, 0, len(entries))
	for _, e := range entries {
		questions = append(questions, model.Question{
			ID:           e.ID,
			Text:         e.Text,
			Type:         model.QuestionType(e.Type),
			Answers:      e.Answers,
			Correct:      e.Correct,
			Media:        e.Media,
			Category:     categoryFor(e.Structure),
			MediaMissing: e.MediaMissing,
		})
	}

	return New(questions)
}

// New builds a catalog from an already-decoded question list.
func New(questions []model.Question) (*Catalog, error) {
	if len(questions) == 0 {
		return nil, ErrEmpty
	}

	byID := make(map[int]model.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	return &Catalog{questions: questions, byID: byID}, nil
}

// categoryFor maps the workbook structure tag onto the two exam categories.
// Unknown values default to BASIC, matching the workbook export.
func categoryFor(structure string) model.Category {
	if strings.EqualFold(strings.TrimSpace(structure), "SPECJALISTYCZNY") {
		return model.CategorySpecialist
	}
	return model.CategoryBasic
}

func read(ctx context.Context, source string) ([]byte, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return os.ReadFile(source)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

// Len returns the total number of questions, usable or not.
func (c *Catalog) Len() int {
	return len(c.questions)
}

// ByID looks up a question by its identifier.
func (c *Catalog) ByID(id int) (model.Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// UsableIDs returns the IDs of all questions of the given category whose
// media is present. These form the sampling pool for new sessions.
func (c *Catalog) UsableIDs(cat model.Category) []int {
	var ids []int
	for _, q := range c.questions {
		if q.MediaMissing || q.Category != cat {
			continue
		}
		ids = append(ids, q.ID)
	}
	return ids
}

package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prawko/practice-backend/internal/catalog"
	"github.com/prawko/practice-backend/internal/model"
	"github.com/prawko/practice-backend/internal/store"
)

const (
	// BasicDraw and SpecialistDraw are the per-category question counts of
	// a full exam paper.
	BasicDraw      = 20
	SpecialistDraw = 12

	// HistoryLimit bounds the retained session history; inserting past the
	// limit evicts the oldest entry.
	HistoryLimit = 100
)

// ErrSessionNotFound is returned when a session ID cannot be resolved in
// the history. Callers treat it as a recoverable condition, not a failure.
var ErrSessionNotFound = errors.New("session not found")

// Engine owns every write to the session history, the per-question
// statistics and the active-session pointer. All state lives in the store;
// the engine itself holds no session data between calls.
type Engine struct {
	store store.Store
	cat   *catalog.Catalog
	log   zerolog.Logger

	// mu serializes read-modify-write cycles against the store, standing in
	// for the single-threaded event loop the state model assumes.
	mu sync.Mutex
}

// NewEngine creates a session engine over the given store and catalog.
func NewEngine(st store.Store, cat *catalog.Catalog, log zerolog.Logger) *Engine {
	return &Engine{
		store: st,
		cat:   cat,
		log:   log.With().Str("component", "engine").Logger(),
	}
}

// Create starts a new exam session: 20 basic + 12 specialist questions drawn
// uniformly without replacement from the usable pools, shuffled together.
// A pool smaller than its draw count yields a shorter session, not an error.
// The session becomes the active one and is written into the history.
func (e *Engine) Create(ctx context.Context) (*model.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	basic := drawFrom(e.cat.UsableIDs(model.CategoryBasic), BasicDraw)
	specialist := drawFrom(e.cat.UsableIDs(model.CategorySpecialist), SpecialistDraw)

	if len(basic) < BasicDraw || len(specialist) < SpecialistDraw {
		e.log.Debug().
			Int("basic", len(basic)).
			Int("specialist", len(specialist)).
			Msg("Usable pool short, session will be below full size")
	}

	questions := append(basic, specialist...)
	rand.Shuffle(len(questions), func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	})

	session := model.Session{
		ID:        uuid.New().String(),
		Date:      time.Now().UTC(),
		Questions: questions,
		Answers:   make(map[int]string),
	}

	if err := e.persistAsActive(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Redo starts a fresh attempt at an existing session's exact question
// sequence: new ID, new timestamp, empty answers, same questions in the
// same order. Repeating a session means repeating its question set, not
// drawing a new one.
func (e *Engine) Redo(ctx context.Context, id string) (*model.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sessions, err := e.loadSessions(ctx)
	if err != nil {
		return nil, err
	}
	i := indexByID(sessions, id)
	if i < 0 {
		return nil, ErrSessionNotFound
	}

	session := model.Session{
		ID:        uuid.New().String(),
		Date:      time.Now().UTC(),
		Questions: append([]int(nil), sessions[i].Questions...),
		Answers:   make(map[int]string),
	}

	if err := e.persistAsActive(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SubmitAnswer records the answer for the question at the given index and
// bumps the per-question statistics. It is a silent no-op when the session
// or question cannot be resolved, or when the question is already answered
// (first answer wins, duplicate submissions never double-count).
func (e *Engine) SubmitAnswer(ctx context.Context, id string, index int, answer string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	sessions, err := e.loadSessions(ctx)
	if err != nil {
		return err
	}
	i := indexByID(sessions, id)
	if i < 0 {
		return nil
	}
	s := &sessions[i]

	if index < 0 || index >= len(s.Questions) {
		return nil
	}
	qid := s.Questions[index]
	q, ok := e.cat.ByID(qid)
	if !ok {
		return nil
	}
	if _, answered := s.Answers[qid]; answered {
		return nil
	}

	if s.Answers == nil {
		s.Answers = make(map[int]string)
	}
	s.Answers[qid] = answer

	// Statistics are permanent, independent of whether the session is ever
	// finalized. The stats and session writes hit separate keys; a crash in
	// between can leave them out of step, which the data model tolerates.
	if err := e.bumpStats(ctx, qid, q.IsCorrect(answer)); err != nil {
		return err
	}
	return e.saveSessions(ctx, sessions)
}

// Finalize computes the result of a session and clears the active-session
// pointer. Unanswered questions count as incorrect. A result, once set, is
// never recomputed.
func (e *Engine) Finalize(ctx context.Context, id string) (*model.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	sessions, err := e.loadSessions(ctx)
	if err != nil {
		return nil, err
	}
	i := indexByID(sessions, id)
	if i < 0 {
		return nil, ErrSessionNotFound
	}
	s := &sessions[i]

	if s.Result == nil {
		s.Result = e.score(s)
	}

	if err := e.store.Set(ctx, store.KeyActiveSession, ""); err != nil {
		return nil, fmt.Errorf("clear active session: %w", err)
	}
	if err := e.saveSessions(ctx, sessions); err != nil {
		return nil, err
	}

	out := *s
	return &out, nil
}

func (e *Engine) score(s *model.Session) *model.Result {
	var res model.Result
	for _, qid := range s.Questions {
		q, ok := e.cat.ByID(qid)
		if !ok {
			continue
		}
		correct := q.IsCorrect(s.Answers[qid])

		res.Total++
		if correct {
			res.Correct++
		}
		if q.Category == model.CategorySpecialist {
			res.SpecialistTotal++
			if correct {
				res.SpecialistCorrect++
			}
		} else {
			res.BasicTotal++
			if correct {
				res.BasicCorrect++
			}
		}
	}
	return &res
}

// Active returns the in-progress session, or nil when none is marked active.
// A dangling pointer (session evicted from history) also yields nil.
func (e *Engine) Active(ctx context.Context) (*model.Session, error) {
	var id string
	if _, err := e.store.Get(ctx, store.KeyActiveSession, &id); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, nil
	}

	s, err := e.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, nil
	}
	return s, err
}

// Get resolves a session by ID from the history.
func (e *Engine) Get(ctx context.Context, id string) (*model.Session, error) {
	sessions, err := e.loadSessions(ctx)
	if err != nil {
		return nil, err
	}
	i := indexByID(sessions, id)
	if i < 0 {
		return nil, ErrSessionNotFound
	}
	out := sessions[i]
	return &out, nil
}

// History returns all retained sessions, newest first.
func (e *Engine) History(ctx context.Context) ([]model.Session, error) {
	return e.loadSessions(ctx)
}

// Stats returns the accumulated per-question statistics.
func (e *Engine) Stats(ctx context.Context) (map[int]model.QuestionStats, error) {
	stats := make(map[int]model.QuestionStats)
	if _, err := e.store.Get(ctx, store.KeyStats, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// ─── Persistence helpers ───────────────────────────────────────────────

func (e *Engine) persistAsActive(ctx context.Context, s model.Session) error {
	sessions, err := e.loadSessions(ctx)
	if err != nil {
		return err
	}
	if err := e.saveSessions(ctx, upsert(sessions, s)); err != nil {
		return err
	}
	if err := e.store.Set(ctx, store.KeyActiveSession, s.ID); err != nil {
		return fmt.Errorf("set active session: %w", err)
	}
	return nil
}

func (e *Engine) loadSessions(ctx context.Context) ([]model.Session, error) {
	var sessions []model.Session
	if _, err := e.store.Get(ctx, store.KeySessions, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (e *Engine) saveSessions(ctx context.Context, sessions []model.Session) error {
	if err := e.store.Set(ctx, store.KeySessions, sessions); err != nil {
		return fmt.Errorf("save sessions: %w", err)
	}
	return nil
}

func (e *Engine) bumpStats(ctx context.Context, qid int, correct bool) error {
	stats := make(map[int]model.QuestionStats)
	if _, err := e.store.Get(ctx, store.KeyStats, &stats); err != nil {
		return err
	}

	st := stats[qid]
	st.Attempts++
	if correct {
		st.Correct++
	}
	stats[qid] = st

	if err := e.store.Set(ctx, store.KeyStats, stats); err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

// upsert places s at the front of the history, replacing an entry with the
// same ID if present, and truncates to the capacity bound.
func upsert(sessions []model.Session, s model.Session) []model.Session {
	for i := range sessions {
		if sessions[i].ID == s.ID {
			sessions = append(sessions[:i], sessions[i+1:]...)
			break
		}
	}
	sessions = append([]model.Session{s}, sessions...)
	if len(sessions) > HistoryLimit {
		sessions = sessions[:HistoryLimit]
	}
	return sessions
}

func indexByID(sessions []model.Session, id string) int {
	for i := range sessions {
		if sessions[i].ID == id {
			return i
		}
	}
	return -1
}

// drawFrom samples up to n IDs uniformly without replacement: each draw
// removes the picked element from the working copy, shrinking the pool for
// later draws. A short pool yields fewer IDs.
func drawFrom(pool []int, n int) []int {
	work := append([]int(nil), pool...)
	picked := make([]int, 0, n)
	for len(picked) < n && len(work) > 0 {
		i := rand.IntN(len(work))
		picked = append(picked, work[i])
		work[i] = work[len(work)-1]
		work = work[:len(work)-1]
	}
	return picked
}

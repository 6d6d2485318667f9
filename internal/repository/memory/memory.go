// Package memory is an in-process Repository used by handler tests and the
// zero-config demo mode.  All state lives behind one RWMutex; every call
// returns deep copies so callers can never mutate stored entities.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yanizio/reing/internal/qa"
	"github.com/yanizio/reing/internal/repository"
)

// Store implements repository.Repository.
type Store struct {
	mu        sync.RWMutex
	questions map[int64]*qa.Question
	nextQID   int64
	nextAID   int64
	now       func() time.Time
}

var _ repository.Repository = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, letting tests pin created_at ordering.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		questions: make(map[int64]*qa.Question),
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) StoreQuestion(_ context.Context, body, ip string) (qa.Question, error) {
	q := qa.Question{Body: body, IPAddress: ip}
	if err := q.Validate(); err != nil {
		return qa.Question{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextQID++
	q.ID = s.nextQID
	q.CreatedAt = s.now()
	s.questions[q.ID] = &q
	return q.Clone(), nil
}

func (s *Store) StoreAnswer(_ context.Context, questionID int64, body string) (qa.Question, error) {
	a := qa.Answer{QuestionID: questionID, Body: body}
	if err := a.Validate(); err != nil {
		return qa.Question{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[questionID]
	if !ok {
		return qa.Question{}, qa.ErrNotFound
	}
	if q.Answered() {
		return qa.Question{}, qa.ErrAlreadyAnswered
	}
	s.nextAID++
	a.ID = s.nextAID
	a.CreatedAt = s.now()
	q.Answer = &a
	return q.Clone(), nil
}

func (s *Store) FindQuestion(_ context.Context, id int64) (qa.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.questions[id]
	if !ok {
		return qa.Question{}, qa.ErrNotFound
	}
	return q.Clone(), nil
}

// FindNextQuestion returns the answered question with the smallest id
// greater than id.
func (s *Store) FindNextQuestion(_ context.Context, id int64) (qa.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *qa.Question
	for _, q := range s.questions {
		if q.Answered() && q.ID > id && (best == nil || q.ID < best.ID) {
			best = q
		}
	}
	if best == nil {
		return qa.Question{}, qa.ErrNotFound
	}
	return best.Clone(), nil
}

// FindPrevQuestion returns the answered question with the largest id less
// than id.
func (s *Store) FindPrevQuestion(_ context.Context, id int64) (qa.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *qa.Question
	for _, q := range s.questions {
		if q.Answered() && q.ID < id && (best == nil || q.ID > best.ID) {
			best = q
		}
	}
	if best == nil {
		return qa.Question{}, qa.ErrNotFound
	}
	return best.Clone(), nil
}

func (s *Store) AnsweredQuestions(_ context.Context, offset, limit int) ([]qa.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.answeredLocked()
	return window(all, offset, limit), nil
}

func (s *Store) CountAnsweredQuestions(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, q := range s.questions {
		if q.Answered() {
			n++
		}
	}
	return n, nil
}

func (s *Store) NotAnsweredQuestions(_ context.Context) ([]qa.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]qa.Question, 0)
	for _, q := range s.questions {
		if !q.Answered() && !q.Hidden {
			out = append(out, q.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Store) SearchQuestions(_ context.Context, query string) ([]qa.Question, error) {
	tokens := repository.Keywords(query)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]qa.Question, 0)
	for _, q := range s.answeredLocked() {
		if repository.Matches(q, tokens) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *Store) HideQuestion(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return qa.ErrNotFound
	}
	q.Hidden = true
	return nil
}

// UpdateQuestion copies moderation fields only.
func (s *Store) UpdateQuestion(_ context.Context, in qa.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[in.ID]
	if !ok {
		return qa.ErrNotFound
	}
	q.Hidden = in.Hidden
	return nil
}

// answeredLocked returns clones of answered questions, newest answer first.
// Caller holds at least the read lock.
func (s *Store) answeredLocked() []qa.Question {
	out := make([]qa.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if q.Answered() {
			out = append(out, q.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		ai, aj := out[i].Answer, out[j].Answer
		if !ai.CreatedAt.Equal(aj.CreatedAt) {
			return ai.CreatedAt.After(aj.CreatedAt)
		}
		return ai.ID > aj.ID
	})
	return out
}

func window(qs []qa.Question, offset, limit int) []qa.Question {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(qs) || limit <= 0 {
		return []qa.Question{}
	}
	end := offset + limit
	if end > len(qs) {
		end = len(qs)
	}
	return qs[offset:end]
}

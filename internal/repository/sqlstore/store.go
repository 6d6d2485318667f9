// internal/repository/sqlstore/store.go
//
// SQL-backed Repository.
//
// Context
// -------
// Every read is one `questions LEFT JOIN answers` query scanned into
// repository.JoinedRow and folded by repository.RowsToQuestions.  Writes are
// single INSERT/UPDATE statements followed by a re-read so callers get the
// server-assigned id and created_at.
//
// Drivers
// -------
//   - mysql    – LastInsertId after INSERT.  DSN must carry parseTime=true.
//   - postgres – INSERT … RETURNING id.
//
// Error mapping
// -------------
//   - sql.ErrNoRows             → qa.ErrNotFound
//   - duplicate key on answers  → qa.ErrAlreadyAnswered (concurrent answer)
//   - everything else           → *qa.StorageError
//
// Notes
// -----
// • The store holds only the pool handle.  No caching, no retries.
// • Oxford commas, two spaces after periods.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/yanizio/reing/internal/qa"
	"github.com/yanizio/reing/internal/repository"
)

// Store implements repository.Repository over a *sqlx.DB.
type Store struct {
	db *sqlx.DB
}

var _ repository.Repository = (*Store)(nil)

// New wraps an open pool.  The driver name on db selects placeholder style
// and insert strategy.
func New(db *sqlx.DB) *Store { return &Store{db: db} }

/*──────────────────────────── writes ────────────────────────────*/

func (s *Store) StoreQuestion(ctx context.Context, body, ip string) (qa.Question, error) {
	if err := (qa.Question{Body: body}).Validate(); err != nil {
		return qa.Question{}, err
	}

	var id int64
	if s.db.DriverName() == "postgres" {
		err := s.db.QueryRowxContext(ctx, s.db.Rebind(qInsertQuestionReturning), body, ip).Scan(&id)
		if err != nil {
			return qa.Question{}, storageErr("store_question", err)
		}
	} else {
		res, err := s.db.ExecContext(ctx, s.db.Rebind(qInsertQuestion), body, ip)
		if err != nil {
			return qa.Question{}, storageErr("store_question", err)
		}
		if id, err = res.LastInsertId(); err != nil {
			return qa.Question{}, storageErr("store_question", err)
		}
	}
	return s.FindQuestion(ctx, id)
}

func (s *Store) StoreAnswer(ctx context.Context, questionID int64, body string) (qa.Question, error) {
	if err := (qa.Answer{Body: body}).Validate(); err != nil {
		return qa.Question{}, err
	}

	q, err := s.FindQuestion(ctx, questionID)
	if err != nil {
		return qa.Question{}, err
	}
	if q.Answered() {
		return qa.Question{}, qa.ErrAlreadyAnswered
	}

	if _, err := s.db.ExecContext(ctx, s.db.Rebind(qInsertAnswer), questionID, body); err != nil {
		if isDuplicate(err) {
			return qa.Question{}, qa.ErrAlreadyAnswered
		}
		return qa.Question{}, storageErr("store_answer", err)
	}
	return s.FindQuestion(ctx, questionID)
}

func (s *Store) HideQuestion(ctx context.Context, id int64) error {
	return s.setHidden(ctx, "hide_question", id, true)
}

// UpdateQuestion persists moderation fields only.  Body and answer are
// ignored.
func (s *Store) UpdateQuestion(ctx context.Context, q qa.Question) error {
	return s.setHidden(ctx, "update_question", q.ID, q.Hidden)
}

func (s *Store) setHidden(ctx context.Context, op string, id int64, hidden bool) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(qSetHidden), hidden, id)
	if err != nil {
		return storageErr(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr(op, err)
	}
	if n > 0 {
		return nil
	}
	// MySQL reports zero affected rows when the value is unchanged, so an
	// existence check separates "already hidden" from "missing".
	var count int
	if err := s.db.GetContext(ctx, &count, s.db.Rebind(qQuestionExists), id); err != nil {
		return storageErr(op, err)
	}
	if count == 0 {
		return qa.ErrNotFound
	}
	return nil
}

/*──────────────────────────── reads ─────────────────────────────*/

func (s *Store) FindQuestion(ctx context.Context, id int64) (qa.Question, error) {
	return s.one(ctx, "find_question", qFindQuestion, id)
}

func (s *Store) FindNextQuestion(ctx context.Context, id int64) (qa.Question, error) {
	return s.one(ctx, "find_next_question", qNext, id)
}

func (s *Store) FindPrevQuestion(ctx context.Context, id int64) (qa.Question, error) {
	return s.one(ctx, "find_prev_question", qPrev, id)
}

func (s *Store) AnsweredQuestions(ctx context.Context, offset, limit int) ([]qa.Question, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return []qa.Question{}, nil
	}
	return s.many(ctx, "answered_questions", qAnswered, limit, offset)
}

func (s *Store) CountAnsweredQuestions(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, qCountAnswered); err != nil {
		return 0, storageErr("count_answered_questions", err)
	}
	return n, nil
}

func (s *Store) NotAnsweredQuestions(ctx context.Context) ([]qa.Question, error) {
	return s.many(ctx, "not_answered_questions", qNotAnswered)
}

// SearchQuestions ANDs one LIKE pair per keyword.  No keywords means every
// answered question.
func (s *Store) SearchQuestions(ctx context.Context, query string) ([]qa.Question, error) {
	tokens := repository.Keywords(query)

	var b strings.Builder
	b.WriteString(qSearchBase)
	args := make([]any, 0, 2*len(tokens))
	for _, tok := range tokens {
		b.WriteString(qSearchTerm)
		p := repository.LikePattern(tok)
		args = append(args, p, p)
	}
	b.WriteString(qSearchOrder)

	return s.many(ctx, "search_questions", b.String(), args...)
}

/*──────────────────────────── helpers ───────────────────────────*/

func (s *Store) one(ctx context.Context, op, query string, args ...any) (qa.Question, error) {
	qs, err := s.many(ctx, op, query, args...)
	if err != nil {
		return qa.Question{}, err
	}
	if len(qs) == 0 {
		return qa.Question{}, qa.ErrNotFound
	}
	return qs[0], nil
}

func (s *Store) many(ctx context.Context, op, query string, args ...any) ([]qa.Question, error) {
	var rows []repository.JoinedRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []qa.Question{}, nil
		}
		return nil, storageErr(op, err)
	}
	return repository.RowsToQuestions(rows), nil
}

func storageErr(op string, err error) error {
	return &qa.StorageError{Op: "sqlstore." + op, Err: err}
}

// isDuplicate recognises unique-constraint violations from either driver.
func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	var pe *pq.Error
	if errors.As(err, &pe) {
		return pe.Code == "23505"
	}
	return false
}

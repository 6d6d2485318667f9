// internal/repository/repository.go
//
// Question/answer repository contract.
//
// Context
// -------
// Transport code talks to one interface.  Two implementations exist:
//
//   - sqlstore – production, backed by a *sqlx.DB pool.
//   - memory   – in-process, used by handler tests and local demos.
//
// Both share the aggregation and keyword helpers in this package so search
// and join semantics cannot drift apart.
//
// Error contract
// --------------
//   - qa.ErrBlankBody        – validation failed, nothing stored.
//   - qa.ErrNotFound         – id lookup matched no row.
//   - qa.ErrAlreadyAnswered  – StoreAnswer on an answered question.
//   - qa.ErrStorage (wrapped) – pool or driver failure; not retried.
//
// Notes
// -----
// • Implementations hold no mutable state besides their backing store.
// • Oxford commas, two spaces after periods.
package repository

import (
	"context"

	"github.com/yanizio/reing/internal/qa"
)

// Repository is safe for concurrent use.
type Repository interface {
	StoreQuestion(ctx context.Context, body, ipAddress string) (qa.Question, error)
	StoreAnswer(ctx context.Context, questionID int64, body string) (qa.Question, error)

	FindQuestion(ctx context.Context, id int64) (qa.Question, error)
	FindNextQuestion(ctx context.Context, id int64) (qa.Question, error)
	FindPrevQuestion(ctx context.Context, id int64) (qa.Question, error)

	AnsweredQuestions(ctx context.Context, offset, limit int) ([]qa.Question, error)
	CountAnsweredQuestions(ctx context.Context) (int, error)
	NotAnsweredQuestions(ctx context.Context) ([]qa.Question, error)
	SearchQuestions(ctx context.Context, query string) ([]qa.Question, error)

	HideQuestion(ctx context.Context, id int64) error
	UpdateQuestion(ctx context.Context, q qa.Question) error
}

package repository

import (
	"database/sql"
	"time"

	"github.com/yanizio/reing/internal/qa"
)

// JoinedRow is one row of `questions LEFT JOIN answers`.  Answer columns are
// NULL when the question has no answer.
type JoinedRow struct {
	QuestionID        int64          `db:"q_id"`
	QuestionBody      string         `db:"q_body"`
	QuestionIP        string         `db:"q_ip_address"`
	QuestionHidden    bool           `db:"q_hidden"`
	QuestionCreatedAt time.Time      `db:"q_created_at"`
	AnswerID          sql.NullInt64  `db:"a_id"`
	AnswerBody        sql.NullString `db:"a_body"`
	AnswerCreatedAt   sql.NullTime   `db:"a_created_at"`
}

// RowsToQuestions groups rows by question id in first-seen order and
// attaches the answer when one is present.  Each id appears once however
// many times the join repeated it.
func RowsToQuestions(rows []JoinedRow) []qa.Question {
	out := make([]qa.Question, 0, len(rows))
	index := make(map[int64]int, len(rows))

	for _, r := range rows {
		i, seen := index[r.QuestionID]
		if !seen {
			out = append(out, qa.Question{
				ID:        r.QuestionID,
				Body:      r.QuestionBody,
				IPAddress: r.QuestionIP,
				Hidden:    r.QuestionHidden,
				CreatedAt: r.QuestionCreatedAt,
			})
			i = len(out) - 1
			index[r.QuestionID] = i
		}
		if r.AnswerID.Valid && out[i].Answer == nil {
			out[i].Answer = &qa.Answer{
				ID:         r.AnswerID.Int64,
				QuestionID: r.QuestionID,
				Body:       r.AnswerBody.String,
				CreatedAt:  r.AnswerCreatedAt.Time,
			}
		}
	}
	return out
}

// internal/qa/entity.go
//
// Question and Answer value types.
//
// Context
// -------
// A Question is submitted anonymously from the public form and receives at
// most one Answer from the site owner.  The Repository is the only code that
// builds these values from storage rows; everything else receives copies.
//
//   - Question.Answer is nil until the answer-store operation attaches one.
//   - Hidden is the only moderation flag.  Hidden questions stay reachable
//     by id but never appear in the moderation queue.
//   - CreatedAt is assigned by the store at insert time.
//
// Notes
// -----
// • Validation runs before persistence, never in the database.
// • Oxford commas, two spaces after periods.
package qa

import (
	"strings"
	"time"
)

// Question mirrors one row in `questions` plus its optional answer.
type Question struct {
	ID        int64
	Body      string
	IPAddress string
	Hidden    bool
	CreatedAt time.Time
	Answer    *Answer
}

// Answer mirrors one row in `answers`.
type Answer struct {
	ID         int64
	QuestionID int64
	Body       string
	CreatedAt  time.Time
}

// Answered reports whether an answer is attached.
func (q Question) Answered() bool { return q.Answer != nil }

// Validate returns ErrBlankBody when the body is empty or whitespace only.
func (q Question) Validate() error {
	if isBlank(q.Body) {
		return ErrBlankBody
	}
	return nil
}

// Validate applies the same rule to the answer body.  The parent question
// is not consulted.
func (a Answer) Validate() error {
	if isBlank(a.Body) {
		return ErrBlankBody
	}
	return nil
}

// Clone returns a deep copy so callers never share the attached Answer.
func (q Question) Clone() Question {
	if q.Answer != nil {
		a := *q.Answer
		q.Answer = &a
	}
	return q
}

// isBlank treats every Unicode space (including U+3000) as blank.
func isBlank(s string) bool { return strings.TrimSpace(s) == "" }

package repository

import (
	"strings"

	"github.com/yanizio/reing/internal/qa"
)

// ideographicSpace is the full-width space used by Japanese IMEs.
const ideographicSpace = '　'

// Keywords splits a query on ASCII space and U+3000.  Empty tokens are
// dropped; they would match everything anyway.
func Keywords(query string) []string {
	return strings.FieldsFunc(query, func(r rune) bool {
		return r == ' ' || r == ideographicSpace
	})
}

// Matches reports whether every token is a substring of the question body
// or of its answer body.  Matching is case-sensitive.
func Matches(q qa.Question, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(q.Body, tok) {
			continue
		}
		if q.Answer != nil && strings.Contains(q.Answer.Body, tok) {
			continue
		}
		return false
	}
	return true
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern turns a token into a `%token%` pattern with LIKE
// metacharacters escaped (backslash is the default escape in MySQL and
// Postgres).
func LikePattern(token string) string {
	return "%" + likeEscaper.Replace(token) + "%"
}

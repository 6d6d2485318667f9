package auth

import (
	"crypto/subtle"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/yanizio/reing/internal/logger"
)

// Credentials is the single admin account.  PasswordHash is bcrypt.
type Credentials struct {
	Username     string
	PasswordHash string
	Realm        string
}

// Check verifies a username/password pair.  The bcrypt comparison runs
// even when the username is wrong so timing does not reveal which half
// failed.
func (c Credentials) Check(user, pass string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(c.Username)) == 1
	passOK := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(pass)) == nil
	return userOK && passOK
}

// Basic guards next with HTTP Basic authentication.
func Basic(c Credentials) func(http.Handler) http.Handler {
	realm := c.Realm
	if realm == "" {
		realm = "reing admin"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok || !c.Check(user, pass) {
				if ok {
					logger.FromContext(r.Context()).Warnw("admin auth failed",
						"user", user, "path", r.URL.Path)
				}
				w.Header().Set("WWW-Authenticate", `Basic realm="`+realm+`", charset="UTF-8"`)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context(), user)))
		})
	}
}

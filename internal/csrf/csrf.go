// internal/csrf/csrf.go
//
// Stateless CSRF tokens for the question form and the admin actions.
//
// Context
//   Every rendered form embeds a hidden `csrf_token` input.  POST handlers
//   verify it before touching the repository.  The token is
//
//      base64url( nonce | unixMicro | HMAC_SHA256(secret, nonce+unixMicro) )
//
//   •  nonce – 16 random bytes.
//   •  unixMicro – issue time, 8 bytes, big-endian.
//   •  HMAC – keyed with app.csrf_key from config.
//
//   Verification checks the signature and that the issue time is within
//   MaxAge.  No server-side state is kept.
//
//------------------------------------------------------------------------------

package csrf

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"net/http"
	"time"
)

// FieldName is the form field carrying the token.
const FieldName = "csrf_token"

// MaxAge bounds how long a rendered form stays submittable.
const MaxAge = 2 * time.Hour

const tokenBytes = 16 + 8 + sha256.Size

// ErrInvalid is returned by Check for missing, forged, or expired tokens.
var ErrInvalid = errors.New("csrf: invalid token")

// Signer issues and verifies tokens with one secret.
type Signer struct {
	secret []byte
	now    func() time.Time
}

// New returns a Signer keyed with secret.
func New(secret string) *Signer {
	return &Signer{secret: []byte(secret), now: time.Now}
}

// Token creates a new token.  Call once per form render.
func (s *Signer) Token() (string, error) {
	nonce := make([]byte, 16)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(s.now().UnixMicro()))

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, s.sign(nonce, ts)...)
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Verify reports whether tok passes the HMAC and age checks.
func (s *Signer) Verify(tok string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}
	nonce, ts, sig := raw[:16], raw[16:24], raw[24:]

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(ts)))
	now := s.now()
	if now.Sub(issued) > MaxAge || issued.Sub(now) > time.Minute {
		return false
	}
	return hmac.Equal(sig, s.sign(nonce, ts))
}

// Check reads the form field from r and verifies it.  r.ParseForm is
// called implicitly by FormValue.
func (s *Signer) Check(r *http.Request) error {
	if !s.Verify(r.FormValue(FieldName)) {
		return ErrInvalid
	}
	return nil
}

func (s *Signer) sign(nonce, ts []byte) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write(nonce)
	mac.Write(ts)
	return mac.Sum(nil)
}

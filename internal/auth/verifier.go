package auth

import (
	"crypto/subtle"

	"github.com/bentheitguy/printgate/internal/models"
)

// Verifier decides whether a submitted credential matches the configured
// dashboard password. The plaintext password field is authoritative; client
// side salting exists only so the browser never holds the raw value in a
// request log, it adds no replay protection.
type Verifier struct {
	secret string
}

// NewVerifier creates a Verifier for the configured secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Verify reports whether password matches the configured secret. The
// comparison is constant-time so response timing does not leak prefix
// matches. Returns ErrSecretNotConfigured when no secret is set; the login
// path must not fall back to any default.
func (v *Verifier) Verify(password string) (bool, error) {
	if v.secret == "" {
		return false, models.ErrSecretNotConfigured
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(v.secret)) == 1, nil
}

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

const saltLength = 16 // bytes; 32 hex characters on the wire

// GenerateSalt returns a fresh random salt encoded as lowercase hex.
// Uses crypto/rand, never a general-purpose PRNG.
func GenerateSalt() (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}
	return hex.EncodeToString(salt), nil
}

// HashCredential returns the lowercase hex SHA-256 digest of password+salt.
// The browser computes the identical digest with the Web Crypto API, so the
// server-side comparison is an exact string match.
func HashCredential(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

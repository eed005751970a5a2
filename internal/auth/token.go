package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// refreshSecretBytes is the entropy of a raw refresh token before encoding.
const refreshSecretBytes = 64

// NewRefreshSecret returns a high-entropy URL-safe refresh token. The raw
// value is only ever held in memory and returned to the caller once.
func NewRefreshSecret() (string, error) {
	buf := make([]byte, refreshSecretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashRefreshSecret returns the hex SHA-256 of a raw refresh token. Only this
// value is persisted.
func HashRefreshSecret(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

package auth

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
)

// HashPassword returns the hex-encoded SHA-512 digest of the UTF-8
// bytes. Unsalted, which is a known simplification inherited from the
// provisioning side; both sides must agree on the exact digest.
func HashPassword(plaintext string) string {
	sum := sha512.Sum512([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether plaintext hashes to storedHash.
// Constant-time comparison; never errors, a mismatch is just false.
func VerifyPassword(plaintext, storedHash string) bool {
	candidate := HashPassword(plaintext)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(storedHash)) == 1
}

// HashToken is the digest stored for refresh tokens. Plaintext refresh
// tokens are never persisted; only this hash is.
func HashToken(token string) string {
	return HashPassword(token)
}

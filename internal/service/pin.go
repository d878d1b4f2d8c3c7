package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// pinDigest maps a PIN of any length onto 44 bytes, below bcrypt's 72 byte
// input limit.
func pinDigest(pin string) []byte {
	sum := sha256.Sum256([]byte(pin))
	digest := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(digest, sum[:])
	return digest
}

func hashPIN(pin string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(pinDigest(pin), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// isHashedPIN reports whether stored looks like a bcrypt hash. Records written
// before hashing was introduced hold the PIN in plain text.
func isHashedPIN(stored string) bool {
	if len(stored) != 60 {
		return false
	}
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}

// verifyPIN reports whether pin matches the stored credential exactly.
func verifyPIN(stored, pin string) bool {
	if isHashedPIN(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), pinDigest(pin)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(pin)) == 1
}

// Package credentials turns plaintext passwords into storage-safe,
// verifiable artifacts and validates registration input. One hashing scheme
// is used for all credential storage: PBKDF2-SHA256 over a random salt,
// stored as "saltHex:digestHex".
package credentials

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength = 16
	iterations = 4096
	keyLength  = 32
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateEmail performs a structural check: local part, "@", domain with a
// dot. Deliberately not RFC-exhaustive.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// ValidatePassword checks the password strength rules and returns every
// violated rule, not just the first.
func ValidatePassword(password string) (bool, []string) {
	var violations []string

	if len(password) < 8 {
		violations = append(violations, "password must be at least 8 characters long")
	}

	var hasLower, hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLower {
		violations = append(violations, "password must contain a lowercase letter")
	}
	if !hasUpper {
		violations = append(violations, "password must contain an uppercase letter")
	}
	if !hasDigit {
		violations = append(violations, "password must contain a digit")
	}

	return len(violations) == 0, violations
}

// HashPassword derives a salted digest from the password. Each call draws a
// fresh random salt, so hashing the same password twice yields different
// strings.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	digest := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(digest), nil
}

// VerifyPassword recomputes the digest from the stored salt and compares it
// in constant time. Malformed stored values return false, never panic.
func VerifyPassword(password, stored string) bool {
	saltHex, digestHex, ok := strings.Cut(stored, ":")
	if !ok {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	digest, err := hex.DecodeString(digestHex)
	if err != nil {
		return false
	}

	candidate := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)
	return subtle.ConstantTimeCompare(candidate, digest) == 1
}

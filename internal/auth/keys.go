package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// KeyPrefix is the prefix for all generated API keys
	KeyPrefix = "stk_"
	// KeyLength is the length of the random part of the key (32 bytes = 256 bits)
	KeyLength = 32
	// BCryptCost is the cost factor for bcrypt hashing
	BCryptCost = 12
)

// GenerateAPIKey generates a new API key with the standard prefix
func GenerateAPIKey() (string, error) {
	randomBytes := make([]byte, KeyLength)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	// URL-safe base64, no padding
	encoded := base64.RawURLEncoding.EncodeToString(randomBytes)

	return KeyPrefix + encoded, nil
}

// HashAPIKey hashes an API key using bcrypt
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), BCryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash key: %w", err)
	}
	return string(hash), nil
}

// VerifyAPIKey verifies an API key against a bcrypt hash
func VerifyAPIKey(key, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
	return err == nil
}

// VerifyAPIKeyConstantTime verifies an API key against a plain text key.
// Used for the ADMIN_API_KEY environment variable.
func VerifyAPIKeyConstantTime(got, expected string) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(expected)) == 1
}

// ExtractBearerToken extracts the bearer token from an Authorization header
func ExtractBearerToken(authHeader string) string {
	// Remove "Bearer " prefix (case-insensitive)
	token := strings.TrimSpace(authHeader)
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		token = strings.TrimSpace(token[7:])
	}
	return token
}

package services

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
)

// stateBytes is the entropy of the anti-forgery state parameter.
const stateBytes = 32

// generateState creates a random state parameter for CSRF protection.
// A fresh value is generated for every attempt.
func generateState() (string, error) {
	bytes := make([]byte, stateBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// newID returns an identifier for sessions and history entries.
func newID() string {
	return uuid.NewString()
}

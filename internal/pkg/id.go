package pkg

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateGameID - generates a new random game ID.
func GenerateGameID() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}

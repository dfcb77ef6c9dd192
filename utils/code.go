package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateCode returns size random bytes hex encoded, so the result is twice
// size characters long.
func GenerateCode(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

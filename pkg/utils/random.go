package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandomToken generates a hex token of the specified length
// from a cryptographic random source.
func GenerateRandomToken(length int) string {
	bytes := make([]byte, (length+1)/2)
	if _, err := rand.Read(bytes); err != nil {
		return ""
	}
	return hex.EncodeToString(bytes)[:length]
}

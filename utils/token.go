package utils

import (
	"crypto/rand"
)

// GenerateRandomToken returns a random alphanumeric string. Used for the
// OAuth state parameter, so it must not be predictable.
func GenerateRandomToken(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	token := make([]byte, length)
	_, _ = rand.Read(token)
	for i := range token {
		token[i] = charset[int(token[i])%len(charset)]
	}
	return string(token)
}

package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const apiTokenByteLength = 32

// GenerateSecureToken returns a base64 URL-safe random string using the specified number of random bytes.
func GenerateSecureToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		return "", fmt.Errorf("length must be positive")
	}

	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateAPIToken returns an opaque token suitable for long-lived API access.
func GenerateAPIToken() (string, error) {
	return GenerateSecureToken(apiTokenByteLength)
}

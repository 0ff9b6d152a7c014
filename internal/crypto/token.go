// internal/crypto/token.go
package crypto

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/google/uuid"
)

const tokenLength = 32

// GenerateID returns a random UUID for link and session identifiers.
func GenerateID() string {
	return uuid.NewString()
}

// GenerateToken returns an unguessable URL-safe token for download links.
func GenerateToken() string {
	bytes := make([]byte, tokenLength)
	if _, err := rand.Read(bytes); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}

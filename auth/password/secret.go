package password

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// GenerateSecret creates a cryptographically secure random secret of the
// specified byte length, returned as a hex-encoded string. Accounts created
// through an OAuth callback store a hash of such a secret so they satisfy the
// user model without ever being able to authenticate by password.
func GenerateSecret(length int) (string, error) {
	b := make([]byte, length)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", fmt.Errorf("password: generate secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// RecoveryTokenBytes is the entropy of a recovery token.
const RecoveryTokenBytes = 32

// RecoveryTokenLength is the length of an encoded recovery token.
var RecoveryTokenLength = base64.RawURLEncoding.EncodedLen(RecoveryTokenBytes)

// NewRecoveryToken returns a random URL-safe token for an item's QR code.
func NewRecoveryToken() (string, error) {
	buf := make([]byte, RecoveryTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating recovery token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// WellFormedRecoveryToken reports whether s could have been produced by
// NewRecoveryToken. Lookups of anything else can skip the database.
func WellFormedRecoveryToken(s string) bool {
	if len(s) != RecoveryTokenLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

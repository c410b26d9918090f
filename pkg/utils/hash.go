package utils

import (
	"crypto/sha256"
	"encoding/hex"

	"insight-web/pkg/phonemask"
)

// hashLen is how many hex characters of the digest end up in logs
const hashLen = 16

// HashPhone returns a short, stable fingerprint of a phone number for logs.
// Only the digits are hashed, so the masked and the raw spelling of the same
// number produce the same value.
func HashPhone(phone string) string {
	sum := sha256.Sum256([]byte(phonemask.Digits(phone)))
	return hex.EncodeToString(sum[:])[:hashLen]
}

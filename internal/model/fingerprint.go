package model

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Fingerprint returns the hex SHA3-256 digest of normalized request text.
// The empty string has an empty fingerprint.
func Fingerprint(normalized string) string {
	if normalized == "" {
		return ""
	}
	sum := sha3.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

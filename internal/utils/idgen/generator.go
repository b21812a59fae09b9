// Package idgen generates public identifiers of the form prefix_suffix with
// a cryptographically random lowercase alphanumeric suffix.
package idgen

import (
	"crypto/rand"
	"fmt"
	"strings"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateSecureID returns "<prefix>_<suffix>" where suffix is length random
// characters drawn from [a-z0-9] using crypto/rand.
func GenerateSecureID(prefix string, length int) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("idgen: prefix must not be empty")
	}
	if length <= 0 {
		return "", fmt.Errorf("idgen: length must be positive, got %d", length)
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("idgen: read random bytes: %w", err)
	}

	suffix := make([]byte, length)
	for i, b := range buf {
		suffix[i] = idAlphabet[int(b)%len(idAlphabet)]
	}

	return prefix + "_" + string(suffix), nil
}

// ValidateIDFormat reports whether id is a well-formed identifier carrying
// expectedPrefix and a non-empty [a-z0-9] suffix.
func ValidateIDFormat(id string, expectedPrefix string) bool {
	want := expectedPrefix + "_"
	if !strings.HasPrefix(id, want) {
		return false
	}
	suffix := id[len(want):]
	if suffix == "" {
		return false
	}
	for _, ch := range suffix {
		if (ch < 'a' || ch > 'z') && (ch < '0' || ch > '9') {
			return false
		}
	}
	return true
}

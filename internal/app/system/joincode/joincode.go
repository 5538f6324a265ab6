// Package joincode generates the short codes users type to join a team
// directly. Codes are 6 uppercase alphanumeric characters drawn from
// crypto/rand; uniqueness is enforced by the unique sparse index on
// teams.join_code, with the team store retrying on collision.
package joincode

import (
	"crypto/rand"
	"fmt"
)

// Length of every generated join code.
const Length = 6

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// New returns a random join code.
func New() (string, error) {
	buf := make([]byte, Length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate join code: %w", err)
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return string(buf), nil
}

// IsValid reports whether code has the shape of a generated join code.
func IsValid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

package bookings

import (
	"crypto/rand"
	"fmt"
)

// refAlphabet omits 0/O, 1/I and similar glyphs so codes survive being
// read over the phone or typed from a printed ticket.
const refAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateRefCode produces a random booking reference of the given length.
func GenerateRefCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("ref code length must be positive, got %d", length)
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	for i, b := range buf {
		buf[i] = refAlphabet[int(b)%len(refAlphabet)]
	}
	return string(buf), nil
}

package common

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// MakeRandHexString generates a random hexadecimal string of the given size.
// The size parameter specifies the number of random bytes, so the resulting
// string is twice as long.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}

	return hex.EncodeToString(b), nil
}

// NewAttachmentID returns "<unix millis>-<8 hex chars>". The time prefix keeps
// ids ordered by capture time; the random suffix makes collisions on the same
// device practically impossible without any lookup of existing keys.
func NewAttachmentID(now time.Time) (string, error) {
	suffix, err := MakeRandHexString(4)
	if err != nil {
		return "", fmt.Errorf("attachment id: %w", err)
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), suffix), nil
}

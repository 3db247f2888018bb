// Package cryptox computes and verifies content checksums for locally stored
// attachments.
package cryptox

import (
	"crypto/subtle"

	"golang.org/x/crypto/blake2b"
)

// ChecksumSize is the length in bytes of a checksum produced by Checksum.
const ChecksumSize = blake2b.Size256

// Checksum returns the BLAKE2b-256 digest of data.
func Checksum(data []byte) []byte {
	sum := blake2b.Sum256(data)
	return sum[:]
}

// Verify reports whether sum is the checksum of data. The comparison runs in
// constant time.
func Verify(data, sum []byte) bool {
	if len(sum) != ChecksumSize {
		return false
	}
	return subtle.ConstantTimeCompare(Checksum(data), sum) == 1
}

// Package fingerprint derives the content-addressed identity of a sealed
// document: the 64-character lowercase hex SHA-256 digest of its bytes.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// Sum returns the lowercase hex SHA-256 digest of data.
func Sum(data []byte) string {
	digest := sha256.Sum256(data)
	return hex.EncodeToString(digest[:])
}

// SumReader computes the digest of everything readable from r.
func SumReader(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("failed to read document bytes: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

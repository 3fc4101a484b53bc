// Package xxh3 provides the 64-bit XXH3 digest used to name persisted files.
package xxh3

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// Hasher implements scan.Hasher using XXH3-64.
type Hasher struct{}

// New returns an XXH3 hasher.
func New() *Hasher {
	return &Hasher{}
}

// Hash hashes the input and returns the digest as 16 lowercase hex chars.
func (h *Hasher) Hash(data []byte) (string, error) {
	return Hex(xxh3.Hash(data)), nil
}

// Hex renders a 64-bit digest as zero-padded lowercase hex.
func Hex(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest is a sha256 content hash.
type Digest [32]byte

// Hash digests content.
func Hash(content []byte) Digest {
	return sha256.Sum256(content)
}

// Combine builds a composite key: H(content || part1 || part2 ...). The order
// of parts must be deterministic.
func Combine(content Digest, parts ...[]byte) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

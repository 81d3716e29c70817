// Content fingerprints for cached documents.
//
// Each cache entry remembers the fingerprint of the bytes it was read from or
// last written as. The watcher compares it against the file on disk to tell
// our own writes apart from external edits, and Stat reports it as a
// checksum. Three algorithms are available via Config.HashAlgorithm.
package jsonkv

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"

	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Hash algorithm constants.
const (
	AlgXXHash3 = 1 // Default, fastest
	AlgFNV1a   = 2 // No external dependencies
	AlgBlake2b = 3 // Best distribution
)

// fingerprint hashes data to 64 bits with the given algorithm.
func fingerprint(data []byte, alg int) uint64 {
	switch alg {
	case AlgFNV1a:
		h := fnv.New64a()
		h.Write(data)
		return h.Sum64()
	case AlgBlake2b:
		h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
		h.Write(data)
		return binary.BigEndian.Uint64(h.Sum(nil))
	default:
		return xxh3.Hash(data)
	}
}

// checksum renders a fingerprint as 16 hex characters.
func checksum(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

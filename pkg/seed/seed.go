// Package seed derives deterministic random seeds from human-friendly
// phrases, so "the cellar under the mill" always rebuilds the same level.
package seed

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"
)

// FromPhrase maps a phrase onto an int64 seed. The empty phrase is a valid
// input and maps to a fixed seed like any other.
func FromPhrase(phrase string) int64 {
	sum := blake2b.Sum256([]byte(phrase))
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// Derive produces a sub-seed for a labeled part of a run (a region, a
// retry, a floor) without disturbing the base seed's other derivations.
func Derive(base int64, label string) int64 {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(base))
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only fails on invalid key sizes; nil has none.
		panic(err)
	}
	h.Write(buf[:])
	h.Write([]byte(label))
	return int64(binary.BigEndian.Uint64(h.Sum(nil)[:8]))
}

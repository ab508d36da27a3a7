package core

import (
	"encoding/binary"
	"hash/fnv"
)

// HashFields folds the FNV-1a hash of every field, in order, into a single 64-bit value.
// Only used as a pre-filter: equal hashes still go through the resource's own identity check.
func HashFields(fields ...string) uint64 {
	acc := fnv.New64a()
	var buf [8]byte
	for _, f := range fields {
		h := fnv.New64a()
		h.Write([]byte(f))
		binary.LittleEndian.PutUint64(buf[:], h.Sum64())
		acc.Write(buf[:])
	}
	return acc.Sum64()
}

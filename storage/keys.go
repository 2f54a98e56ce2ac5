package storage

import (
	"encoding/hex"

	"github.com/minio/highwayhash"
)

// Key identifies one cached embedding. It is a 128-bit HighwayHash of the
// model name and the embedded text, so the same text embedded by two models
// gets two keys.
type Key [16]byte

var hashKey = []byte("personarank-embedding-cache-v1.0")

// KeyFor derives the cache key for text embedded by model.
func KeyFor(model, text string) Key {
	h, err := highwayhash.New128(hashKey)
	if err != nil {
		// hashKey is a fixed 32 byte constant
		panic(err)
	}
	h.Write([]byte(model))
	h.Write([]byte{0})
	h.Write([]byte(text))

	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

// String returns the key as lowercase hex.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

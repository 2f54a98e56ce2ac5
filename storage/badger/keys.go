package badger

import (
	"github.com/poiesic/personarank/storage"
)

const (
	embeddingPrefix = "embvec:"
)

// makeEmbeddingKey generates the key for a cached embedding.
// Format: prefix + 16 byte hash
func makeEmbeddingKey(key storage.Key) []byte {
	buf := make([]byte, len(embeddingPrefix)+len(key))
	offset := copy(buf, embeddingPrefix)
	copy(buf[offset:], key[:])
	return buf
}
